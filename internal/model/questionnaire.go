package model

import "time"

// QuestionnaireResponse represents a row in one of the two response tables
// (`questionnaire_responses_confirmed` / `questionnaire_responses_unconfirmed`).
// The report id is the conflict key, so repeated questionnaire edits for the
// same report overwrite one row instead of accumulating duplicates.
//
// Fields:
//  ReportID  – parent report id (conflict key).
//  UserID    – acting user's uuid.
//  Answers   – per-question answer map.
//  Comments  – optional free-text comment.
//  CreatedAt – creation timestamp.
type QuestionnaireResponse struct {
	ReportID  string            // questionnaire_responses_*.report_id
	UserID    string            // questionnaire_responses_*.user_id
	Answers   map[string]Answer // questionnaire_responses_*.answers (JSON)
	Comments  string            // questionnaire_responses_*.comments
	CreatedAt time.Time         // questionnaire_responses_*.created_at
}
