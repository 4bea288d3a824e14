package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/queue"
	"github.com/roadwatch/road-report-service/internal/storage"
)

// MediaFile is one attachment of a submission, already opened for reading.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// SubmitReportInput carries everything the report engine needs. ReportID is
// the id of an existing row (from the draft) when one is known; since rows
// are keyed by user id it only influences the storage path of uploads.
type SubmitReportInput struct {
	UserID                 string
	Location               string
	ReportPincode          string
	UserPincode            string
	Vote                   string
	QuestionnaireCompleted bool
	ReportID               string
	Files                  []MediaFile
}

// SubmitReportResult reports where the row landed and which uploads
// succeeded. UploadWarnings lists files that failed to upload; the report
// itself still went through with the URLs that succeeded.
type SubmitReportResult struct {
	ReportID       string
	Confirmed      bool
	FileURLs       []string
	UploadWarnings []string
}

// ReportService is the report upsert engine.
type ReportService struct {
	Resolver ConfirmationResolver
	Reports  ReportStore
	Media    MediaUploader
	Drafts   DraftStore
	Publish  EventPublisher
}

func NewReportService(resolver ConfirmationResolver, reports ReportStore, media MediaUploader, drafts DraftStore, publish EventPublisher) *ReportService {
	return &ReportService{Resolver: resolver, Reports: reports, Media: media, Drafts: drafts, Publish: publish}
}

// Submit validates, uploads media, resolves the destination table and
// upserts the report row keyed by the user's id.
//
// A single file's upload failure is recorded as a warning and the loop
// continues; only a validation error, a failed confirmation lookup or a
// failed upsert abort the submission. On an aborted submission the local
// draft is left untouched so the user can retry. On success the draft is
// cleared (confirmed path) or refreshed (unconfirmed path, where the user
// still has to confirm their email before the report counts as final).
func (s *ReportService) Submit(ctx context.Context, in SubmitReportInput) (SubmitReportResult, error) {
	if in.UserID == "" {
		return SubmitReportResult{}, ErrUserRequired
	}
	if !model.ValidVote(in.Vote) {
		return SubmitReportResult{}, ErrVoteRequired
	}

	// Uploads run sequentially in input order so the stored URL list
	// matches the order the user attached the files in.
	var (
		urls     []string
		warnings []string
	)
	for _, f := range in.Files {
		objectName := storage.ObjectName(in.UserID, in.ReportID, f.Name)
		url, err := s.Media.Upload(ctx, objectName, f.Reader, f.Size, f.ContentType)
		if err != nil {
			log.Printf("report: upload of %q failed for user %s: %v", f.Name, in.UserID, err)
			warnings = append(warnings, fmt.Sprintf("failed to upload %s", f.Name))
			continue
		}
		urls = append(urls, url)
	}

	confirmed, err := s.Resolver.EmailConfirmed(ctx, in.UserID)
	if err != nil {
		return SubmitReportResult{}, fmt.Errorf("verify profile confirmation: %w", err)
	}

	rec := model.Report{
		ID:            in.UserID,
		Location:      in.Location,
		ReportPincode: optional(in.ReportPincode),
		UserPincode:   optional(in.UserPincode),
		Vote:          in.Vote,
		QsnAnswered:   in.QuestionnaireCompleted,
		Files:         urls,
	}
	if err := s.Reports.Upsert(ctx, confirmed, rec); err != nil {
		// Draft deliberately left in place for retry.
		return SubmitReportResult{}, fmt.Errorf("save report: %w", err)
	}

	if s.Publish != nil {
		_ = s.Publish(ctx, queue.ReportSubmittedEvent{
			ReportID:    in.UserID,
			UserID:      in.UserID,
			Location:    in.Location,
			Pincode:     in.ReportPincode,
			Vote:        in.Vote,
			Confirmed:   confirmed,
			QsnAnswered: in.QuestionnaireCompleted,
			Files:       urls,
			SubmittedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	if confirmed {
		if err := s.Drafts.ClearDraft(ctx, in.UserID); err != nil {
			log.Printf("report: clear draft for user %s failed: %v", in.UserID, err)
		}
		if err := s.Drafts.ClearAnswers(ctx, in.UserID); err != nil {
			log.Printf("report: clear cached answers for user %s failed: %v", in.UserID, err)
		}
	} else {
		// The row sits in reports_unconfirmed until the email confirmation
		// flips; keep the draft around so the form reloads populated.
		refreshed := model.DraftReport{
			FileNames:              fileNames(in.Files),
			Vote:                   in.Vote,
			QuestionnaireCompleted: in.QuestionnaireCompleted,
			Location:               in.Location,
			ReportPincode:          in.ReportPincode,
			UserPincode:            in.UserPincode,
			ReportID:               in.UserID,
		}
		if err := s.Drafts.SaveDraft(ctx, in.UserID, refreshed); err != nil {
			log.Printf("report: refresh draft for user %s failed: %v", in.UserID, err)
		}
	}

	return SubmitReportResult{
		ReportID:       in.UserID,
		Confirmed:      confirmed,
		FileURLs:       urls,
		UploadWarnings: warnings,
	}, nil
}

func fileNames(files []MediaFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}
