package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/road-report-service/internal/model"
)

func newReportService(resolver *MockResolver, reports *MockReportStore, media *MockUploader, drafts *MockDraftStore, rec *eventRecorder) *ReportService {
	var publish EventPublisher
	if rec != nil {
		publish = rec.publish
	}
	return NewReportService(resolver, reports, media, drafts, publish)
}

func TestReportSubmit_MissingVoteRejectedBeforeAnyCall(t *testing.T) {
	// Arrange: no expectations at all; validation must fire first.
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	media := new(MockUploader)
	drafts := new(MockDraftStore)
	svc := newReportService(resolver, reports, media, drafts, nil)

	// Act
	_, err := svc.Submit(context.Background(), SubmitReportInput{UserID: "u1", Vote: ""})

	// Assert
	assert.ErrorIs(t, err, ErrVoteRequired)
	resolver.AssertNotCalled(t, "EmailConfirmed", mock.Anything)
	reports.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

	// The system-assigned sentinel is not a user vote either.
	_, err = svc.Submit(context.Background(), SubmitReportInput{UserID: "u1", Vote: model.VoteNotRated})
	assert.ErrorIs(t, err, ErrVoteRequired)
}

func TestReportSubmit_MissingUserRejected(t *testing.T) {
	svc := newReportService(new(MockResolver), new(MockReportStore), new(MockUploader), new(MockDraftStore), nil)

	_, err := svc.Submit(context.Background(), SubmitReportInput{Vote: model.VoteGood})
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestReportSubmit_ConfirmedPath(t *testing.T) {
	// Arrange
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	media := new(MockUploader)
	drafts := new(MockDraftStore)
	rec := &eventRecorder{}
	svc := newReportService(resolver, reports, media, drafts, rec)

	resolver.On("EmailConfirmed", "u1").Return(true, nil)
	reports.On("Upsert", true, mock.MatchedBy(func(r model.Report) bool {
		return r.ID == "u1" && r.Vote == model.VotePoor && r.QsnAnswered &&
			len(r.Files) == 1 && r.Files[0] == "https://cdn.example/u1/draft/pothole.jpg"
	})).Return(nil)
	drafts.On("ClearDraft", "u1").Return(nil)
	drafts.On("ClearAnswers", "u1").Return(nil)
	media.On("Upload", mock.Anything, mock.Anything, int64(4), "image/jpeg").
		Return("https://cdn.example/u1/draft/pothole.jpg", nil)

	// Act
	res, err := svc.Submit(context.Background(), SubmitReportInput{
		UserID:                 "u1",
		Location:               "MG Road, Bengaluru",
		ReportPincode:          "560001",
		Vote:                   model.VotePoor,
		QuestionnaireCompleted: true,
		Files: []MediaFile{
			{Name: "pothole.jpg", ContentType: "image/jpeg", Size: 4, Reader: strings.NewReader("data")},
		},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "u1", res.ReportID, "report id equals user id")
	assert.True(t, res.Confirmed)
	assert.Empty(t, res.UploadWarnings)
	resolver.AssertExpectations(t)
	reports.AssertExpectations(t)
	drafts.AssertExpectations(t)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "u1", rec.events[0].ReportID)
	assert.True(t, rec.events[0].Confirmed)
}

func TestReportSubmit_UnconfirmedPathRefreshesDraft(t *testing.T) {
	// Arrange
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	media := new(MockUploader)
	drafts := new(MockDraftStore)
	svc := newReportService(resolver, reports, media, drafts, nil)

	resolver.On("EmailConfirmed", "u1").Return(false, nil)
	reports.On("Upsert", false, mock.Anything).Return(nil)
	drafts.On("SaveDraft", "u1", mock.MatchedBy(func(d model.DraftReport) bool {
		return d.ReportID == "u1" && d.Vote == model.VoteFair
	})).Return(nil)

	// Act
	res, err := svc.Submit(context.Background(), SubmitReportInput{
		UserID: "u1", Location: "MG Road", Vote: model.VoteFair,
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, res.Confirmed)
	drafts.AssertExpectations(t)
	drafts.AssertNotCalled(t, "ClearDraft", mock.Anything)
}

// A single failed upload becomes a warning; the submission still goes
// through with the URLs that succeeded.
func TestReportSubmit_PartialUploadFailureWarns(t *testing.T) {
	// Arrange
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	media := new(MockUploader)
	drafts := new(MockDraftStore)
	svc := newReportService(resolver, reports, media, drafts, nil)

	resolver.On("EmailConfirmed", "u1").Return(true, nil)
	media.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection reset")).Once()
	media.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://cdn.example/u1/draft/crack.jpg", nil).Once()
	reports.On("Upsert", true, mock.MatchedBy(func(r model.Report) bool {
		return len(r.Files) == 1
	})).Return(nil)
	drafts.On("ClearDraft", "u1").Return(nil)
	drafts.On("ClearAnswers", "u1").Return(nil)

	// Act
	res, err := svc.Submit(context.Background(), SubmitReportInput{
		UserID: "u1", Vote: model.VoteGood,
		Files: []MediaFile{
			{Name: "pothole.jpg", Reader: strings.NewReader("a")},
			{Name: "crack.jpg", Reader: strings.NewReader("b")},
		},
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, res.UploadWarnings, 1)
	assert.Contains(t, res.UploadWarnings[0], "pothole.jpg")
	assert.Equal(t, []string{"https://cdn.example/u1/draft/crack.jpg"}, res.FileURLs)
}

func TestReportSubmit_ConfirmationLookupFailureAborts(t *testing.T) {
	// Arrange
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	drafts := new(MockDraftStore)
	svc := newReportService(resolver, reports, new(MockUploader), drafts, nil)

	resolver.On("EmailConfirmed", "u1").Return(false, errors.New("db down"))

	// Act
	_, err := svc.Submit(context.Background(), SubmitReportInput{UserID: "u1", Vote: model.VoteGood})

	// Assert: nothing written, draft untouched so the user can retry.
	assert.Error(t, err)
	reports.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	drafts.AssertNotCalled(t, "ClearDraft", mock.Anything)
	drafts.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything)
}

func TestReportSubmit_UpsertFailureLeavesDraftAlone(t *testing.T) {
	// Arrange
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	drafts := new(MockDraftStore)
	rec := &eventRecorder{}
	svc := newReportService(resolver, reports, new(MockUploader), drafts, rec)

	resolver.On("EmailConfirmed", "u1").Return(true, nil)
	reports.On("Upsert", true, mock.Anything).Return(errors.New("deadlock"))

	// Act
	_, err := svc.Submit(context.Background(), SubmitReportInput{UserID: "u1", Vote: model.VoteGood})

	// Assert
	assert.Error(t, err)
	drafts.AssertNotCalled(t, "ClearDraft", mock.Anything)
	assert.Empty(t, rec.events, "no event for a failed submission")
}

// Resubmitting overwrites the same row; both calls target the same id and
// the second result equals the first.
func TestReportSubmit_ResubmissionIsIdempotent(t *testing.T) {
	// Arrange
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	drafts := new(MockDraftStore)
	svc := newReportService(resolver, reports, new(MockUploader), drafts, nil)

	resolver.On("EmailConfirmed", "u1").Return(true, nil)
	reports.On("Upsert", true, mock.Anything).Return(nil).Twice()
	drafts.On("ClearDraft", "u1").Return(nil)
	drafts.On("ClearAnswers", "u1").Return(nil)

	in := SubmitReportInput{UserID: "u1", Location: "MG Road", Vote: model.VotePoor}

	// Act
	first, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first.ReportID, second.ReportID)
	reports.AssertExpectations(t)
}

// A publish failure is swallowed; the submission already succeeded.
func TestReportSubmit_PublishFailureIgnored(t *testing.T) {
	resolver := new(MockResolver)
	reports := new(MockReportStore)
	drafts := new(MockDraftStore)
	rec := &eventRecorder{err: errors.New("broker unreachable")}
	svc := newReportService(resolver, reports, new(MockUploader), drafts, rec)

	resolver.On("EmailConfirmed", "u1").Return(true, nil)
	reports.On("Upsert", true, mock.Anything).Return(nil)
	drafts.On("ClearDraft", "u1").Return(nil)
	drafts.On("ClearAnswers", "u1").Return(nil)

	_, err := svc.Submit(context.Background(), SubmitReportInput{UserID: "u1", Vote: model.VoteGood})
	assert.NoError(t, err)
}
