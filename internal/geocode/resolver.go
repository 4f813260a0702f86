// Package geocode talks to the external reverse-geocode service. The
// engine only ever sees the Resolver interface; the geocode actor layers
// its grid-cell cache on top.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pin-drop/internal/models"
)

// Resolver resolves a coordinate to place-name parts. Implementations may
// return an entry with every field empty when nothing resolves; that is not
// an error.
type Resolver interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (models.GeoEntry, error)
}

// HTTPResolver queries a reverse-geocode endpoint that accepts lat/lng
// query parameters and answers with a JSON object carrying city, region,
// country and countryCode fields.
type HTTPResolver struct {
	endpoint string
	client   *http.Client
}

func NewHTTPResolver(endpoint string) *HTTPResolver {
	return &HTTPResolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *HTTPResolver) ReverseGeocode(ctx context.Context, lat, lng float64) (models.GeoEntry, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return models.GeoEntry{}, fmt.Errorf("invalid geocoder endpoint: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.GeoEntry{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return models.GeoEntry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeoEntry{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body struct {
		City        string `json:"city"`
		Subregion   string `json:"subregion"`
		Region      string `json:"region"`
		Country     string `json:"country"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.GeoEntry{}, fmt.Errorf("malformed geocoder response: %w", err)
	}

	city := body.City
	if city == "" {
		city = body.Subregion
	}
	return models.GeoEntry{
		City:        city,
		Region:      body.Region,
		Country:     body.Country,
		CountryCode: body.CountryCode,
		UpdatedAt:   time.Now().UnixMilli(),
	}, nil
}
