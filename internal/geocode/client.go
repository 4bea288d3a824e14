// Package geocode talks to the Geoapify autocomplete API and provides the
// debounced search used by the location screen. Queries are filtered to a
// single country and capped at a fixed number of results.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/roadwatch/road-report-service/internal/config"
)

// MinQueryLength is the minimum number of characters before a search
// request is dispatched at all.
const MinQueryLength = 3

// Sentinel errors surfaced to handlers so the provider's failure modes map
// onto distinct user-facing messages.
var (
	ErrQueryTooShort = errors.New("query shorter than minimum length")
	ErrRateLimited   = errors.New("geocoding provider rate limit exceeded")
	ErrBadAPIKey     = errors.New("geocoding API key rejected")
)

// Place is one autocomplete suggestion. Pincode may be empty when the
// provider has no postal code for the feature.
type Place struct {
	Name    string `json:"name"`
	Pincode string `json:"pincode"`
	PlaceID string `json:"place_id,omitempty"`
}

// Client queries the Geoapify geocode/autocomplete endpoint.
type Client struct {
	cfg  config.GeoConfig
	http *http.Client
}

func NewClient(cfg config.GeoConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// geoapify response envelope; only the properties we render are decoded.
type featureCollection struct {
	Features []struct {
		Properties struct {
			Formatted string `json:"formatted"`
			Name      string `json:"name"`
			Postcode  string `json:"postcode"`
			PlaceID   string `json:"place_id"`
		} `json:"properties"`
	} `json:"features"`
}

// Autocomplete fetches place suggestions for query. Queries below
// MinQueryLength return ErrQueryTooShort without any network call.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]Place, error) {
	if len(query) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	q := url.Values{}
	q.Set("text", query)
	q.Set("filter", "countrycode:"+c.cfg.CountryCode)
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	q.Set("apiKey", c.cfg.APIKey)
	reqURL := c.cfg.BaseURL + "/v1/geocode/autocomplete?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusForbidden:
		return nil, ErrBadAPIKey
	default:
		return nil, fmt.Errorf("geocoding request failed: status %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	places := make([]Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		name := f.Properties.Formatted
		if name == "" {
			name = f.Properties.Name
		}
		if name == "" {
			continue
		}
		places = append(places, Place{
			Name:    name,
			Pincode: f.Properties.Postcode,
			PlaceID: f.Properties.PlaceID,
		})
	}
	return places, nil
}
