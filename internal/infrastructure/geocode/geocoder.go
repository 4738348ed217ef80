// Package geocode resolves free-text addresses into coordinates via a
// Nominatim-compatible HTTP endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves an address at call time. Results may vary across
// calls as the upstream data changes; callers must treat any error as
// blocking for the operation that needed the coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// Error marks a failed resolution (not found, quota, network).
type Error struct {
	Address string
	Reason  string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geocode %q: %s", e.Address, e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

// NominatimGeocoder implements Geocoder against a Nominatim search
// endpoint (the public instance or a self-hosted one).
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *NominatimGeocoder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NominatimGeocoder{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

func (g *NominatimGeocoder) Resolve(ctx context.Context, address string) (Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinates{}, &Error{Address: address, Reason: "empty address"}
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, &Error{Address: address, Reason: "bad request", Cause: err}
	}
	// Nominatim usage policy requires an identifying UA.
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return Coordinates{}, &Error{Address: address, Reason: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, &Error{Address: address, Reason: fmt.Sprintf("upstream status %d", resp.StatusCode)}
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, &Error{Address: address, Reason: "malformed response", Cause: err}
	}
	if len(results) == 0 {
		return Coordinates{}, &Error{Address: address, Reason: "address not found"}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, &Error{Address: address, Reason: "malformed latitude", Cause: err}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, &Error{Address: address, Reason: "malformed longitude", Cause: err}
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
