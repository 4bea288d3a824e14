// Package queue defines the report events exchanged over the message
// broker and the background consumer that records them.
package queue

// ReportSubmittedEvent is published after a report upsert succeeds. It
// carries enough information for downstream consumers to log, notify, or
// feed analytics without querying the primary database. Confirmed tells
// consumers which table pair the row landed in.
type ReportSubmittedEvent struct {
	ReportID    string   `json:"report_id"`
	UserID      string   `json:"user_id"`
	Location    string   `json:"location"`
	Pincode     string   `json:"pincode,omitempty"`
	Vote        string   `json:"vote"`
	Confirmed   bool     `json:"confirmed"`
	QsnAnswered bool     `json:"qsn_answered"`
	Files       []string `json:"files"`
	SubmittedAt string   `json:"submitted_at"`
}
