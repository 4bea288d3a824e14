package handler

import (
	"context"
	"time"

	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/repository"
)

// minPasswordLen is enforced on every registration surface, user-facing and
// admin alike, before any privileged call is made.
const minPasswordLen = 6

// UserStore is the slice of repository.UserRepo the auth and admin
// handlers need.
type UserStore interface {
	Create(ctx context.Context, email, password, role string, cost int) (string, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id string) (repository.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenStore persists hashed refresh tokens; implemented by
// repository.TokenRepo.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// ProfileStore is the slice of repository.ProfileRepo the auth and admin
// handlers need.
type ProfileStore interface {
	Create(ctx context.Context, p model.Profile) error
	GetByID(ctx context.Context, id string) (model.Profile, error)
}

// AdminReportStore inserts a report row directly into the confirmed table;
// implemented by repository.ReportRepo.
type AdminReportStore interface {
	AdminInsert(ctx context.Context, userID, location string, pincode *string) (model.Report, error)
}
