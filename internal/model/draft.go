package model

import "time"

// DraftReport is the single in-progress report a user can hold at a time.
// It lives in the per-user draft slot in Redis: saved on every field change,
// refreshed after an unconfirmed-path submission (the user cannot finalise
// until their email is confirmed), and cleared on confirmed-path success or
// logout.
//
// ReportID is set once a server-side row exists (stub or full) so later
// submissions reuse it instead of creating a second row.
type DraftReport struct {
	FileNames              []string  `json:"file_names"`
	Vote                   string    `json:"vote"`
	QuestionnaireCompleted bool      `json:"questionnaire_completed"`
	Location               string    `json:"location"`
	ReportPincode          string    `json:"report_pincode"`
	UserPincode            string    `json:"user_pincode"`
	SavedAt                time.Time `json:"saved_at"`
	ReportID               string    `json:"report_id,omitempty"`
}

// SelectedLocation is the place the user confirmed on the search screen,
// persisted so the report flow can resume after a reload. Superseded
// whenever the user edits their location.
type SelectedLocation struct {
	Location  string    `json:"location"`
	Pincode   string    `json:"pincode"`
	Timestamp time.Time `json:"timestamp"`
}
