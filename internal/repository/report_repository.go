package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/roadwatch/road-report-service/internal/model"
)

// ReportRepo provides upsert-style access to the two report tables. The
// confirmation flag resolved at write time picks the table; within a table
// the user's uuid is the primary key, so a second submission overwrites the
// first row instead of creating another.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// reportTable maps a confirmation status onto its destination table. Only
// these two names are ever interpolated into SQL.
func reportTable(confirmed bool) string {
	if confirmed {
		return "reports"
	}
	return "reports_unconfirmed"
}

// Upsert writes a report row keyed by the user's uuid into the table
// selected by confirmed. The ON DUPLICATE KEY clause makes resubmission
// idempotent: every column except id and created_at is overwritten.
func (r *ReportRepo) Upsert(ctx context.Context, confirmed bool, rec model.Report) error {
	files := rec.Files
	if files == nil {
		files = []string{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return err
	}
	q := "INSERT INTO " + reportTable(confirmed) + ` (id, location, report_pincode, user_pincode, vote, qsn_answered, files)
		VALUES (?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			location=VALUES(location),
			report_pincode=VALUES(report_pincode),
			user_pincode=VALUES(user_pincode),
			vote=VALUES(vote),
			qsn_answered=VALUES(qsn_answered),
			files=VALUES(files)`
	_, err = r.DB.ExecContext(ctx, q,
		rec.ID, rec.Location, nullable(rec.ReportPincode), nullable(rec.UserPincode),
		rec.Vote, rec.QsnAnswered, filesJSON)
	return err
}

// UpsertStub writes the minimal placeholder row the questionnaire path
// creates when no report exists yet: empty file list, not_rated vote and
// qsn_answered already true. Keyed the same way as a full report, so a
// later full submission overwrites the stub rather than duplicating it.
func (r *ReportRepo) UpsertStub(ctx context.Context, confirmed bool, userID, location string, reportPincode, userPincode *string) error {
	rec := model.Report{
		ID:            userID,
		Location:      location,
		ReportPincode: reportPincode,
		UserPincode:   userPincode,
		Vote:          model.VoteNotRated,
		QsnAnswered:   true,
		Files:         []string{},
	}
	return r.Upsert(ctx, confirmed, rec)
}

// MarkQuestionnaireAnswered flips the qsn_answered flag on an existing
// report row. The questionnaire engine treats a failure here as
// best-effort: the response row already records completion.
func (r *ReportRepo) MarkQuestionnaireAnswered(ctx context.Context, confirmed bool, reportID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE "+reportTable(confirmed)+" SET qsn_answered=TRUE WHERE id=?",
		reportID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Row may already carry qsn_answered=TRUE; distinguish a truly
		// missing row for the caller's log line.
		var one int
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM "+reportTable(confirmed)+" WHERE id=? LIMIT 1",
			reportID).Scan(&one); errors.Is(scanErr, sql.ErrNoRows) {
			return ErrReportNotFound
		}
	}
	return nil
}

// GetByID fetches the report row for an id from the selected bucket.
func (r *ReportRepo) GetByID(ctx context.Context, confirmed bool, id string) (model.Report, error) {
	var (
		rec           model.Report
		reportPincode sql.NullString
		userPincode   sql.NullString
		filesJSON     []byte
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, location, report_pincode, user_pincode, vote, qsn_answered, files, created_at, updated_at FROM "+
			reportTable(confirmed)+" WHERE id=? LIMIT 1", id).
		Scan(&rec.ID, &rec.Location, &reportPincode, &userPincode, &rec.Vote,
			&rec.QsnAnswered, &filesJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Report{}, ErrReportNotFound
	}
	if err != nil {
		return model.Report{}, err
	}
	if reportPincode.Valid {
		rec.ReportPincode = &reportPincode.String
	}
	if userPincode.Valid {
		rec.UserPincode = &userPincode.String
	}
	if len(filesJSON) > 0 {
		if err := json.Unmarshal(filesJSON, &rec.Files); err != nil {
			return model.Report{}, err
		}
	}
	return rec, nil
}

// AdminInsert writes a privileged minimal report row straight into the
// confirmed table, mirroring the admin shim's /api/report endpoint. The
// row carries the not_rated sentinel and an empty file list.
func (r *ReportRepo) AdminInsert(ctx context.Context, userID, location string, pincode *string) (model.Report, error) {
	rec := model.Report{
		ID:            userID,
		Location:      location,
		ReportPincode: pincode,
		Vote:          model.VoteNotRated,
		Files:         []string{},
	}
	if err := r.Upsert(ctx, true, rec); err != nil {
		return model.Report{}, err
	}
	return r.GetByID(ctx, true, userID)
}

// nullable converts an optional string into its sql representation.
func nullable(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
