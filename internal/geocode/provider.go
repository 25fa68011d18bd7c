package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"talentmatch-engine/internal/domain"
)

// Provider resolves a free-text place query to at most one coordinate.
// (nil, nil) means the provider answered but found nothing: unresolved,
// not an error.
type Provider interface {
	Geocode(ctx context.Context, city, country string) (*domain.Coordinate, error)
}

// HTTPProvider talks to a Nominatim-compatible geocoding endpoint.
type HTTPProvider struct {
	BaseURL  string
	ClientID string // identifying header, required by public providers
	Token    string // optional API key
	Client   *http.Client
}

func NewHTTPProvider(baseURL, clientID, token string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		BaseURL:  baseURL,
		ClientID: clientID,
		Token:    token,
		Client:   &http.Client{Timeout: timeout},
	}
}

// nominatim returns lat/lon as JSON strings
type providerHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (p *HTTPProvider) Geocode(ctx context.Context, city, country string) (*domain.Coordinate, error) {
	query := city
	if country != "" {
		query = city + ", " + country
	}

	vals := url.Values{}
	vals.Set("q", query)
	vals.Set("format", "jsonv2")
	vals.Set("limit", "1")
	if p.Token != "" {
		vals.Set("key", p.Token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"?"+vals.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.ClientID)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	// any non-2xx means unresolved, not a propagated error
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}

	var hits []providerHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("geocode %q: decode: %w", query, err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, nil
	}
	// (0,0) is the classic bad-geocode sentinel; never admit it as a fix
	if lat == 0 && lon == 0 {
		return nil, nil
	}

	return &domain.Coordinate{Lat: lat, Lon: lon, Source: domain.SourceGeocoded}, nil
}
