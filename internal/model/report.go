package model

import "time"

// Vote values accepted for a road-condition report. VoteNotRated is the
// sentinel written on questionnaire-first stub reports that have not been
// rated yet.
const (
	VoteExcellent = "excellent"
	VoteGood      = "good"
	VoteFair      = "fair"
	VotePoor      = "poor"
	VoteVeryPoor  = "very_poor"
	VoteNotRated  = "not_rated"
)

// ValidVote reports whether v is one of the five user-selectable condition
// votes. The not_rated sentinel is deliberately excluded: it is assigned by
// the system, never chosen by a user.
func ValidVote(v string) bool {
	switch v {
	case VoteExcellent, VoteGood, VoteFair, VotePoor, VoteVeryPoor:
		return true
	}
	return false
}

// Report represents a row in either `reports` or `reports_unconfirmed`.
// The user's uuid is the primary key, so a user holds at most one report
// per confirmation bucket and resubmission overwrites rather than
// duplicates. Files holds public media URLs and is stored as a JSON column.
//
// Fields:
//  ID            – owning user's uuid (reports.id, primary key).
//  Location      – formatted place name the report refers to.
//  ReportPincode – postal code of the reported location (nullable).
//  UserPincode   – reporter's home postal code captured at the
//                  location-permission step (nullable).
//  Vote          – condition vote, or not_rated for stubs.
//  QsnAnswered   – whether the questionnaire was completed.
//  Files         – public URLs of the uploaded media.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last overwrite timestamp.
type Report struct {
	ID            string    // reports.id
	Location      string    // reports.location
	ReportPincode *string   // reports.report_pincode (nullable)
	UserPincode   *string   // reports.user_pincode (nullable)
	Vote          string    // reports.vote
	QsnAnswered   bool      // reports.qsn_answered
	Files         []string  // reports.files (JSON)
	CreatedAt     time.Time // reports.created_at
	UpdatedAt     time.Time // reports.updated_at
}
