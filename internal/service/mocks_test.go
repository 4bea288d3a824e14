package service

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/queue"
)

// MockResolver is a mock implementation of the ConfirmationResolver interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) EmailConfirmed(ctx context.Context, userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

// MockReportStore is a mock implementation of the ReportStore interface
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) Upsert(ctx context.Context, confirmed bool, rec model.Report) error {
	args := m.Called(confirmed, rec)
	return args.Error(0)
}

func (m *MockReportStore) UpsertStub(ctx context.Context, confirmed bool, userID, location string, reportPincode, userPincode *string) error {
	args := m.Called(confirmed, userID, location, reportPincode, userPincode)
	return args.Error(0)
}

func (m *MockReportStore) MarkQuestionnaireAnswered(ctx context.Context, confirmed bool, reportID string) error {
	args := m.Called(confirmed, reportID)
	return args.Error(0)
}

// MockResponseStore is a mock implementation of the ResponseStore interface
type MockResponseStore struct {
	mock.Mock
}

func (m *MockResponseStore) Upsert(ctx context.Context, confirmed bool, rec model.QuestionnaireResponse) error {
	args := m.Called(confirmed, rec)
	return args.Error(0)
}

// MockUploader is a mock implementation of the MediaUploader interface
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(objectName, reader, size, contentType)
	return args.String(0), args.Error(1)
}

// MockDraftStore is a mock implementation of the DraftStore interface
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) SaveDraft(ctx context.Context, userID string, d model.DraftReport) error {
	args := m.Called(userID, d)
	return args.Error(0)
}

func (m *MockDraftStore) ClearDraft(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockDraftStore) SaveAnswers(ctx context.Context, reportID string, answers map[string]model.Answer, comments string) error {
	args := m.Called(reportID, answers, comments)
	return args.Error(0)
}

func (m *MockDraftStore) ClearAnswers(ctx context.Context, reportID string) error {
	args := m.Called(reportID)
	return args.Error(0)
}

// eventRecorder captures published events in place of the AMQP publisher.
type eventRecorder struct {
	mu     sync.Mutex
	events []queue.ReportSubmittedEvent
	err    error
}

func (r *eventRecorder) publish(_ context.Context, ev queue.ReportSubmittedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}
