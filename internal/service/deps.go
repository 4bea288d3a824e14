// Package service implements the report and questionnaire submission
// engines. Both consult the confirmation-status resolver independently at
// write time, since either may run first, and both write with upsert
// semantics so resubmission overwrites instead of duplicating.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/queue"
)

// Validation errors returned before any network or database call is made.
var (
	ErrUserRequired     = errors.New("user id is required")
	ErrVoteRequired     = errors.New("a road condition vote is required")
	ErrLocationRequired = errors.New("location and pincode are required")
)

// ConfirmationResolver reports whether a user's email is confirmed.
// Implemented by repository.ProfileRepo. A lookup failure must abort the
// enclosing submission; the engines never assume a confirmation state.
type ConfirmationResolver interface {
	EmailConfirmed(ctx context.Context, userID string) (bool, error)
}

// ReportStore is the slice of repository.ReportRepo the engines need.
type ReportStore interface {
	Upsert(ctx context.Context, confirmed bool, rec model.Report) error
	UpsertStub(ctx context.Context, confirmed bool, userID, location string, reportPincode, userPincode *string) error
	MarkQuestionnaireAnswered(ctx context.Context, confirmed bool, reportID string) error
}

// ResponseStore persists questionnaire answer bundles; implemented by
// repository.QuestionnaireRepo.
type ResponseStore interface {
	Upsert(ctx context.Context, confirmed bool, rec model.QuestionnaireResponse) error
}

// MediaUploader stores one media object and returns its public URL;
// implemented by storage.MediaStore.
type MediaUploader interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// DraftStore is the slice of draft.Store the engines need to keep the
// per-user resume state in step with what was persisted remotely.
type DraftStore interface {
	SaveDraft(ctx context.Context, userID string, d model.DraftReport) error
	ClearDraft(ctx context.Context, userID string) error
	SaveAnswers(ctx context.Context, reportID string, answers map[string]model.Answer, comments string) error
	ClearAnswers(ctx context.Context, reportID string) error
}

// EventPublisher emits a report.submitted event. Failures are logged by the
// publisher and ignored by the engines.
type EventPublisher func(ctx context.Context, event queue.ReportSubmittedEvent) error

// optional converts a form string into the nullable column representation.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
