package repository

import (
	"context"
	"database/sql"

	"github.com/roadwatch/road-report-service/internal/model"
)

// QuestionnaireRepo persists questionnaire responses into the table pair
// mirroring the report split. report_id is the conflict key, enforcing at
// most one response row per report per table.
type QuestionnaireRepo struct{ DB *sql.DB }

func NewQuestionnaireRepo(db *sql.DB) *QuestionnaireRepo { return &QuestionnaireRepo{DB: db} }

func responseTable(confirmed bool) string {
	if confirmed {
		return "questionnaire_responses_confirmed"
	}
	return "questionnaire_responses_unconfirmed"
}

// Upsert writes the answer bundle keyed by report id. Repeated edits
// overwrite the same row instead of accumulating duplicates.
func (r *QuestionnaireRepo) Upsert(ctx context.Context, confirmed bool, rec model.QuestionnaireResponse) error {
	answersJSON, err := model.EncodeAnswers(rec.Answers, rec.Comments)
	if err != nil {
		return err
	}
	var comments sql.NullString
	if rec.Comments != "" {
		comments = sql.NullString{String: rec.Comments, Valid: true}
	}
	q := "INSERT INTO " + responseTable(confirmed) + ` (report_id, user_id, answers, comments)
		VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE
			user_id=VALUES(user_id),
			answers=VALUES(answers),
			comments=VALUES(comments)`
	_, err = r.DB.ExecContext(ctx, q, rec.ReportID, rec.UserID, answersJSON, comments)
	return err
}
