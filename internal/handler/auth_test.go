package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/road-report-service/internal/config"
)

func registerRequest(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	return rec
}

// A short password is rejected before any store is touched.
func TestRegister_ShortPasswordRejectedLocally(t *testing.T) {
	// Arrange
	users := new(MockUserStore)
	h := NewAuthHandler(config.Config{BcryptCost: 4}, users, new(MockTokenStore), new(MockProfileStore), nil)

	// Act
	rec := registerRequest(t, h,
		`{"name":"Asha","email":"asha@example.com","password":"abc"}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A failed profile insert deletes the just-created user so the email is
// free for a retry, and no tokens are issued for the dead account.
func TestRegister_RollsBackUserOnProfileFailure(t *testing.T) {
	// Arrange
	users := new(MockUserStore)
	tokens := new(MockTokenStore)
	profiles := new(MockProfileStore)
	users.On("Create", "asha@example.com", "secret123", "USER", 4).Return("uid-1", nil)
	profiles.On("Create", mock.AnythingOfType("model.Profile")).Return(errors.New("insert failed"))
	users.On("Delete", "uid-1").Return(nil)
	h := NewAuthHandler(config.Config{BcryptCost: 4}, users, tokens, profiles, nil)

	// Act
	rec := registerRequest(t, h,
		`{"name":"Asha","email":"asha@example.com","password":"secret123"}`)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "create profile failed")
	users.AssertCalled(t, "Delete", "uid-1")
	tokens.AssertNotCalled(t, "StoreRefresh", mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
	profiles.AssertExpectations(t)
}
