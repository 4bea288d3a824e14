package handler

import (
	"encoding/json"
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

func adminPost(t *testing.T, fn echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, fn(e.NewContext(req, rec)))
	return rec
}

func adminCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["code"].(string)
	return code
}

// A short password must be rejected locally, before the privileged
// user-create call is made.
func TestAdminRegister_ShortPasswordRejectedLocally(t *testing.T) {
	// Arrange
	users := new(MockUserStore)
	h := NewAdminHandler(config.Config{BcryptCost: 4}, users, new(MockProfileStore), nil)

	// Act
	rec := adminPost(t, h.Register, "/api/register",
		`{"name":"Asha","email":"asha@example.com","password":"abc"}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", adminCode(t, rec))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// When the profile insert fails the freshly created user is deleted again
// and the profile error is the one surfaced.
func TestAdminRegister_RollsBackUserOnProfileFailure(t *testing.T) {
	// Arrange
	users := new(MockUserStore)
	profiles := new(MockProfileStore)
	users.On("Create", "asha@example.com", "secret123", "USER", 4).Return("uid-1", nil)
	profiles.On("Create", mock.AnythingOfType("model.Profile")).Return(errors.New("insert failed"))
	users.On("Delete", "uid-1").Return(nil)
	h := NewAdminHandler(config.Config{BcryptCost: 4}, users, profiles, nil)

	// Act
	rec := adminPost(t, h.Register, "/api/register",
		`{"name":"Asha","email":"asha@example.com","password":"secret123"}`)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "profile_insert_failed", adminCode(t, rec))
	users.AssertCalled(t, "Delete", "uid-1")
	users.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

// A failed rollback is logged only; the caller still sees the profile
// error, not the cleanup one.
func TestAdminRegister_RollbackFailureStillSurfacesProfileError(t *testing.T) {
	// Arrange
	users := new(MockUserStore)
	profiles := new(MockProfileStore)
	users.On("Create", "asha@example.com", "secret123", "USER", 4).Return("uid-1", nil)
	profiles.On("Create", mock.AnythingOfType("model.Profile")).Return(errors.New("insert failed"))
	users.On("Delete", "uid-1").Return(errors.New("delete failed"))
	h := NewAdminHandler(config.Config{BcryptCost: 4}, users, profiles, nil)

	// Act
	rec := adminPost(t, h.Register, "/api/register",
		`{"name":"Asha","email":"asha@example.com","password":"secret123"}`)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "profile_insert_failed", adminCode(t, rec))
	users.AssertExpectations(t)
}

// The shim refuses every request while no admin key is configured, and any
// request carrying the wrong key.
func TestAdminRequireKey(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	h := NewAdminHandler(config.Config{AdminAPIKey: "topsecret"}, nil, nil, nil)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/report", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	rec := httptest.NewRecorder()
	require.NoError(t, h.RequireKey(next)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/report", nil)
	req.Header.Set("X-Admin-Key", "topsecret")
	rec = httptest.NewRecorder()
	require.NoError(t, h.RequireKey(next)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	// An empty configured key never matches, even an empty header.
	h = NewAdminHandler(config.Config{}, nil, nil, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/report", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.RequireKey(next)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
