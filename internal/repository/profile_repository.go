package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roadwatch/road-report-service/internal/model"
)

// ProfileRepo provides access to the `profiles` table. Profiles are created
// at registration and keyed by the auth user's uuid. The email_confirmed
// flag is written by the external confirmation flow; from here it is
// read-only and consulted before every report or questionnaire write.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// Create inserts a profile row for a freshly registered user.
func (r *ProfileRepo) Create(ctx context.Context, p model.Profile) error {
	var pincode sql.NullString
	if p.Pincode != nil && *p.Pincode != "" {
		pincode = sql.NullString{String: *p.Pincode, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO profiles (id, name, email, pincode) VALUES (?,?,?,?)",
		p.ID, p.Name, p.Email, pincode)
	return err
}

// GetByID fetches a profile by user uuid.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (model.Profile, error) {
	var (
		p       model.Profile
		pincode sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, pincode, email_confirmed, created_at FROM profiles WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Email, &pincode, &p.EmailConfirmed, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	if pincode.Valid {
		p.Pincode = &pincode.String
	}
	return p, nil
}

// EmailConfirmed resolves the confirmation status for a user. This single
// boolean selects the destination table pair for every subsequent report
// and questionnaire write. An absent profile is reported as
// ErrProfileNotFound, never as "not confirmed".
func (r *ProfileRepo) EmailConfirmed(ctx context.Context, userID string) (bool, error) {
	var confirmed bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT email_confirmed FROM profiles WHERE id=? LIMIT 1",
		userID).Scan(&confirmed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrProfileNotFound
	}
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// UpdatePincode stores the home-area postal code captured at the
// location-permission step.
func (r *ProfileRepo) UpdatePincode(ctx context.Context, userID, pincode string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET pincode=? WHERE id=?",
		pincode, userID)
	return err
}

// Delete removes a profile row. Counterpart of UserRepo.Delete for the
// admin rollback path.
func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM profiles WHERE id=?", id)
	return err
}
