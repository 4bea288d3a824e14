package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/road-report-service/internal/geocode"
)

// stubSearcher returns canned suggestions and records call count.
type stubSearcher struct {
	calls  int
	places []geocode.Place
	err    error
}

func (s *stubSearcher) Autocomplete(_ context.Context, query string) ([]geocode.Place, error) {
	if len(query) < geocode.MinQueryLength {
		return nil, geocode.ErrQueryTooShort
	}
	s.calls++
	return s.places, s.err
}

func searchRequest(t *testing.T, h *LocationHandler, uid, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/locations/search?flush=1&q="+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	require.NoError(t, h.Search(c))
	return rec
}

func TestLocationSearch_ReturnsSuggestions(t *testing.T) {
	stub := &stubSearcher{places: []geocode.Place{
		{Name: "MG Road, Bengaluru", Pincode: "560001"},
		{Name: "MG Road, Kochi", Pincode: "682016"},
	}}
	h := NewLocationHandler(stub, time.Millisecond)

	rec := searchRequest(t, h, "u1", "mg+road")
	assert.Equal(t, http.StatusOK, rec.Code)

	var out []placeResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "MG Road, Bengaluru", out[0].Name)
	assert.Equal(t, "560001", out[0].Pincode)
	assert.Equal(t, 1, stub.calls)
}

// A query below the minimum length clears the suggestion list without a
// provider call.
func TestLocationSearch_ShortQueryReturnsEmptyList(t *testing.T) {
	stub := &stubSearcher{}
	h := NewLocationHandler(stub, time.Millisecond)

	rec := searchRequest(t, h, "u1", "ab")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.Equal(t, 0, stub.calls)
}

func TestLocationSearch_RateLimitMapsTo429(t *testing.T) {
	stub := &stubSearcher{err: geocode.ErrRateLimited}
	h := NewLocationHandler(stub, time.Millisecond)

	rec := searchRequest(t, h, "u1", "mg+road")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLocationSearch_Unauthorized(t *testing.T) {
	h := NewLocationHandler(&stubSearcher{}, time.Millisecond)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/locations/search?q=mg+road", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Search(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Each user gets an isolated debouncer, so one user's query does not
// supersede another's.
func TestLocationSearch_PerUserDebouncers(t *testing.T) {
	stub := &stubSearcher{places: []geocode.Place{{Name: "MG Road"}}}
	h := NewLocationHandler(stub, time.Millisecond)

	assert.Equal(t, http.StatusOK, searchRequest(t, h, "u1", "mg+road").Code)
	assert.Equal(t, http.StatusOK, searchRequest(t, h, "u2", "mg+road").Code)
	assert.Equal(t, 2, stub.calls)
}

// Debouncers of users who stopped searching are swept out on the next
// lookup, so the map stays bounded by recently active users.
func TestLocationSearch_EvictsIdleDebouncers(t *testing.T) {
	stub := &stubSearcher{places: []geocode.Place{{Name: "MG Road"}}}
	h := NewLocationHandler(stub, time.Millisecond)

	require.Equal(t, http.StatusOK, searchRequest(t, h, "idle-user", "mg+road").Code)

	h.mu.Lock()
	require.Len(t, h.debouncers, 1)
	h.debouncers["idle-user"].lastUse = time.Now().Add(-2 * debouncerIdleTTL)
	h.mu.Unlock()

	require.Equal(t, http.StatusOK, searchRequest(t, h, "active-user", "mg+road").Code)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.debouncers, 1)
	assert.NotContains(t, h.debouncers, "idle-user")
	assert.Contains(t, h.debouncers, "active-user")
}
