package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadwatch/road-report-service/internal/geocode"
)

// debouncerIdleTTL is how long a user's debouncer may sit unused before a
// later lookup sweeps it out of the map, keeping the map bounded by the
// set of recently active users.
const debouncerIdleTTL = 15 * time.Minute

type debouncerEntry struct {
	d       *geocode.Debouncer
	lastUse time.Time
}

// LocationHandler serves place autocomplete for the location search screen.
// Each user gets their own debouncer so one user's typing cadence never
// delays or cancels another's queries.
type LocationHandler struct {
	Geo   geocode.Searcher
	Delay time.Duration

	mu         sync.Mutex
	debouncers map[string]*debouncerEntry
}

func NewLocationHandler(geo geocode.Searcher, delay time.Duration) *LocationHandler {
	return &LocationHandler{
		Geo:        geo,
		Delay:      delay,
		debouncers: make(map[string]*debouncerEntry),
	}
}

func (h *LocationHandler) debouncerFor(uid string) *geocode.Debouncer {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	for id, e := range h.debouncers {
		if id != uid && now.Sub(e.lastUse) > debouncerIdleTTL {
			delete(h.debouncers, id)
		}
	}
	e, ok := h.debouncers[uid]
	if !ok {
		e = &debouncerEntry{d: geocode.NewDebouncer(h.Geo, h.Delay)}
		h.debouncers[uid] = e
	}
	e.lastUse = now
	return e.d
}

type placeResp struct {
	Name    string `json:"name"`
	Pincode string `json:"pincode,omitempty"`
	PlaceID string `json:"place_id,omitempty"`
}

// Search proxies the user's query to the geocoding provider through the
// per-user debouncer. Queries under the minimum length return an empty
// suggestion list, a superseded query returns 204 so the client simply
// drops it, and flush=1 skips the debounce delay for an explicit search.
func (h *LocationHandler) Search(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	q := c.QueryParam("q")

	d := h.debouncerFor(uid)
	var (
		places []geocode.Place
		err    error
	)
	if c.QueryParam("flush") == "1" {
		places, err = d.Flush(c.Request().Context(), q)
	} else {
		places, err = d.Search(c.Request().Context(), q)
	}

	switch {
	case err == nil:
	case errors.Is(err, geocode.ErrQueryTooShort):
		// Too-short input clears the suggestion list rather than erroring.
		return c.JSON(http.StatusOK, []placeResp{})
	case errors.Is(err, geocode.ErrSuperseded):
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, geocode.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "geocoding rate limit exceeded"})
	case errors.Is(err, geocode.ErrBadAPIKey):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "geocoding unavailable"})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "geocoding failed"})
	}

	out := make([]placeResp, 0, len(places))
	for _, p := range places {
		out = append(out, placeResp{Name: p.Name, Pincode: p.Pincode, PlaceID: p.PlaceID})
	}
	return c.JSON(http.StatusOK, out)
}
