package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultAMapBaseURL = "https://restapi.amap.com"

// PlaceResult is one candidate returned by the remote POI search or
// geocoding service, with coordinates already parsed and validated.
type PlaceResult struct {
	Name      string
	Latitude  float64
	Longitude float64
	Address   string
}

// AMapClient talks to the AMap web-service API: keyword POI search and
// forward geocoding. Both endpoints are free-tier and rate limited, which
// is why the resolver only ever calls them sequentially.
type AMapClient struct {
	logger     *slog.Logger
	key        string
	baseURL    string
	searchHTTP *http.Client
	geoHTTP    *http.Client
}

type AMapConfig struct {
	Key            string
	BaseURL        string
	SearchTimeout  time.Duration
	GeocodeTimeout time.Duration
}

func NewAMapClient(cfg AMapConfig, logger *slog.Logger) *AMapClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAMapBaseURL
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 8 * time.Second
	}
	if cfg.GeocodeTimeout <= 0 {
		cfg.GeocodeTimeout = 6 * time.Second
	}
	return &AMapClient{
		logger:     logger,
		key:        cfg.Key,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		searchHTTP: &http.Client{Timeout: cfg.SearchTimeout},
		geoHTTP:    &http.Client{Timeout: cfg.GeocodeTimeout},
	}
}

// SearchPlaces runs a city-limited keyword POI search and returns every
// result with usable coordinates.
func (c *AMapClient) SearchPlaces(ctx context.Context, keyword, city string) ([]PlaceResult, error) {
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("keywords", keyword)
	q.Set("city", city)
	q.Set("citylimit", "true")
	q.Set("offset", "10")

	var payload struct {
		Status string `json:"status"`
		Info   string `json:"info"`
		POIs   []struct {
			Name     string          `json:"name"`
			Location string          `json:"location"`
			Address  json.RawMessage `json:"address"`
		} `json:"pois"`
	}
	if err := c.getJSON(ctx, c.searchHTTP, "/v3/place/text", q, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "1" {
		return nil, fmt.Errorf("place search rejected: %s", payload.Info)
	}

	var results []PlaceResult
	for _, p := range payload.POIs {
		lat, lng, err := parseLocation(p.Location)
		if err != nil {
			continue
		}
		results = append(results, PlaceResult{
			Name:      p.Name,
			Latitude:  lat,
			Longitude: lng,
			Address:   decodeAddress(p.Address),
		})
	}
	return results, nil
}

// Geocode resolves a free-form address to its best-match coordinates.
func (c *AMapClient) Geocode(ctx context.Context, address, city string) (*PlaceResult, error) {
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("address", address)
	q.Set("city", city)

	var payload struct {
		Status   string `json:"status"`
		Info     string `json:"info"`
		Geocodes []struct {
			Location         string `json:"location"`
			FormattedAddress string `json:"formatted_address"`
		} `json:"geocodes"`
	}
	if err := c.getJSON(ctx, c.geoHTTP, "/v3/geocode/geo", q, &payload); err != nil {
		return nil, err
	}
	if payload.Status != "1" || len(payload.Geocodes) == 0 {
		return nil, fmt.Errorf("geocoding returned no usable match: %s", payload.Info)
	}

	// First result is the service's best match.
	g := payload.Geocodes[0]
	lat, lng, err := parseLocation(g.Location)
	if err != nil {
		return nil, err
	}
	return &PlaceResult{
		Name:      address,
		Latitude:  lat,
		Longitude: lng,
		Address:   g.FormattedAddress,
	}, nil
}

func (c *AMapClient) getJSON(ctx context.Context, client *http.Client, path string, q url.Values, out any) error {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("request to %s returned status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// parseLocation parses AMap's "lng,lat" location string. Coordinates that
// parse to NaN, zero, or negative values are rejected: the service covers
// mainland China, where both axes are strictly positive, and zero is its
// "no location" placeholder.
func parseLocation(location string) (lat, lng float64, err error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed location %q", location)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in %q: %w", location, err)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in %q: %w", location, err)
	}
	if !validCoordinate(lat) || !validCoordinate(lng) {
		return 0, 0, fmt.Errorf("unusable coordinates in %q", location)
	}
	return lat, lng, nil
}

func validCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// decodeAddress tolerates AMap's habit of returning address as either a
// string or an empty array.
func decodeAddress(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
