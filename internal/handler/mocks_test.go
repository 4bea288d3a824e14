package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/repository"
)

// MockUserStore is a mock implementation of the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, email, password, role string, cost int) (string, error) {
	args := m.Called(email, password, role, cost)
	return args.String(0), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	args := m.Called(email)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (repository.User, error) {
	args := m.Called(id)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of the TokenStore interface
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	args := m.Called(userID, tokenHash, exp)
	return args.Error(0)
}

func (m *MockTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	args := m.Called(tokenHash)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(tokenHash)
	return args.Error(0)
}

func (m *MockTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockProfileStore is a mock implementation of the ProfileStore interface
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Create(ctx context.Context, p model.Profile) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockProfileStore) GetByID(ctx context.Context, id string) (model.Profile, error) {
	args := m.Called(id)
	return args.Get(0).(model.Profile), args.Error(1)
}

// MockAdminReportStore is a mock implementation of the AdminReportStore interface
type MockAdminReportStore struct {
	mock.Mock
}

func (m *MockAdminReportStore) AdminInsert(ctx context.Context, userID, location string, pincode *string) (model.Report, error) {
	args := m.Called(userID, location, pincode)
	return args.Get(0).(model.Report), args.Error(1)
}
