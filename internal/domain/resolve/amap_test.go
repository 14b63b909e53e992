package resolve

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AMapClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAMapClient(AMapConfig{Key: "test-key", BaseURL: srv.URL}, slog.Default())
}

func TestSearchPlacesParsesAndFiltersResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/place/text", r.URL.Path)
		assert.Equal(t, "外滩", r.URL.Query().Get("keywords"))
		assert.Equal(t, "上海", r.URL.Query().Get("city"))
		assert.Equal(t, "true", r.URL.Query().Get("citylimit"))
		w.Write([]byte(`{
			"status": "1", "info": "OK",
			"pois": [
				{"name": "外滩", "location": "121.4900,31.2400", "address": "中山东一路"},
				{"name": "坏坐标", "location": "0,0", "address": "应被丢弃"},
				{"name": "空地址", "location": "121.5000,31.2500", "address": []}
			]
		}`))
	})

	results, err := c.SearchPlaces(context.Background(), "外滩", "上海")
	require.NoError(t, err)
	require.Len(t, results, 2, "zero-coordinate result must be dropped")
	assert.Equal(t, "外滩", results[0].Name)
	assert.Equal(t, 31.24, results[0].Latitude)
	assert.Equal(t, 121.49, results[0].Longitude)
	assert.Equal(t, "中山东一路", results[0].Address)
	assert.Empty(t, results[1].Address, "array-typed address decodes to empty string")
}

func TestSearchPlacesRejectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "0", "info": "INVALID_USER_KEY", "pois": []}`))
	})

	_, err := c.SearchPlaces(context.Background(), "外滩", "上海")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_USER_KEY")
}

func TestGeocodeBestMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/geocode/geo", r.URL.Path)
		assert.Equal(t, "上海武康路", r.URL.Query().Get("address"))
		w.Write([]byte(`{
			"status": "1", "info": "OK",
			"geocodes": [
				{"location": "121.4326,31.2072", "formatted_address": "上海市徐汇区武康路"},
				{"location": "121.0000,31.0000", "formatted_address": "次选"}
			]
		}`))
	})

	result, err := c.Geocode(context.Background(), "上海武康路", "上海")
	require.NoError(t, err)
	assert.Equal(t, "上海武康路", result.Name)
	assert.Equal(t, 31.2072, result.Latitude)
	assert.Equal(t, "上海市徐汇区武康路", result.Address)
}

func TestGeocodeNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "1", "info": "OK", "geocodes": []}`))
	})

	_, err := c.Geocode(context.Background(), "不存在的地方", "上海")
	assert.Error(t, err)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantLat  float64
		wantLng  float64
		wantErr  bool
	}{
		{"valid", "116.3972,39.9163", 39.9163, 116.3972, false},
		{"zero is placeholder", "0,0", 0, 0, true},
		{"negative rejected", "-121.49,31.24", 0, 0, true},
		{"missing axis", "116.3972", 0, 0, true},
		{"garbage", "abc,def", 0, 0, true},
		{"empty", "", 0, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lat, lng, err := parseLocation(tc.location)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLat, lat)
			assert.Equal(t, tc.wantLng, lng)
		})
	}
}
