package service

import (
	"context"
	"fmt"
	"log"

	"github.com/roadwatch/road-report-service/internal/model"
)

// SubmitQuestionnaireInput carries a questionnaire submission. ReportID is
// empty when the questionnaire is completed before any report exists; the
// engine then creates a stub report row and reports its id back so the
// caller reuses it.
type SubmitQuestionnaireInput struct {
	ReportID    string
	UserID      string
	Location    string
	Pincode     string
	UserPincode string
	Answers     map[string]model.Answer
	Comments    string
}

// SubmitQuestionnaireResult carries the resolved report id (freshly created
// when CreatedStub is true) and which table pair received the rows.
type SubmitQuestionnaireResult struct {
	ReportID    string
	Confirmed   bool
	CreatedStub bool
}

// QuestionnaireService is the questionnaire upsert engine.
type QuestionnaireService struct {
	Resolver  ConfirmationResolver
	Reports   ReportStore
	Responses ResponseStore
	Drafts    DraftStore
}

func NewQuestionnaireService(resolver ConfirmationResolver, reports ReportStore, responses ResponseStore, drafts DraftStore) *QuestionnaireService {
	return &QuestionnaireService{Resolver: resolver, Reports: reports, Responses: responses, Drafts: drafts}
}

// Submit validates the answer bundle, creates a stub report when none
// exists yet and upserts the answers keyed by report id.
//
// Every fixed question must carry an answer and the submission must be tied
// to a place; both checks happen before any network or database call.
// Marking the parent report's qsn_answered flag is best-effort: the
// response row already records completion, so a failure there is logged
// and the submission still succeeds.
func (s *QuestionnaireService) Submit(ctx context.Context, in SubmitQuestionnaireInput) (SubmitQuestionnaireResult, error) {
	if in.UserID == "" {
		return SubmitQuestionnaireResult{}, ErrUserRequired
	}
	if err := model.ValidateAnswers(in.Answers); err != nil {
		return SubmitQuestionnaireResult{}, err
	}
	if in.Location == "" || in.Pincode == "" {
		return SubmitQuestionnaireResult{}, ErrLocationRequired
	}

	confirmed, err := s.Resolver.EmailConfirmed(ctx, in.UserID)
	if err != nil {
		return SubmitQuestionnaireResult{}, fmt.Errorf("verify profile confirmation: %w", err)
	}

	reportID := in.ReportID
	createdStub := false
	if reportID == "" {
		// First questionnaire completion before any report exists: create
		// the minimal stub row so there is an id to hang the answers on.
		// Rows are keyed by user id, so a later full submission overwrites
		// the stub instead of duplicating it.
		if err := s.Reports.UpsertStub(ctx, confirmed, in.UserID, in.Location,
			optional(in.Pincode), optional(in.UserPincode)); err != nil {
			return SubmitQuestionnaireResult{}, fmt.Errorf("create report stub: %w", err)
		}
		reportID = in.UserID
		createdStub = true
	}

	rec := model.QuestionnaireResponse{
		ReportID: reportID,
		UserID:   in.UserID,
		Answers:  in.Answers,
		Comments: in.Comments,
	}
	if err := s.Responses.Upsert(ctx, confirmed, rec); err != nil {
		return SubmitQuestionnaireResult{}, fmt.Errorf("save questionnaire: %w", err)
	}

	if err := s.Reports.MarkQuestionnaireAnswered(ctx, confirmed, reportID); err != nil {
		log.Printf("questionnaire: mark report %s answered failed: %v", reportID, err)
	}

	if confirmed {
		if err := s.Drafts.ClearAnswers(ctx, reportID); err != nil {
			log.Printf("questionnaire: clear cached answers for report %s failed: %v", reportID, err)
		}
	} else {
		// Keep a local copy so the answers survive a reload while the
		// email is still unconfirmed.
		if err := s.Drafts.SaveAnswers(ctx, reportID, in.Answers, in.Comments); err != nil {
			log.Printf("questionnaire: cache answers for report %s failed: %v", reportID, err)
		}
	}

	return SubmitQuestionnaireResult{ReportID: reportID, Confirmed: confirmed, CreatedStub: createdStub}, nil
}
