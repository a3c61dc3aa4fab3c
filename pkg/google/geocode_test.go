package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geocodeServer(t *testing.T, resp GeocodeResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Austin, TX", r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocate_FirstMatch(t *testing.T) {
	srv := geocodeServer(t, GeocodeResponse{
		Status: StatusOK,
		Results: []GeocodeResult{
			{FormattedAddress: "Austin, TX, USA", Geometry: Geometry{Location: LatLng{Lat: 30.2672, Lng: -97.7431}}},
			{FormattedAddress: "Austin, MN, USA", Geometry: Geometry{Location: LatLng{Lat: 43.6666, Lng: -92.9746}}},
		},
	})

	ll, err := Locate(context.Background(), NewGeocoder("test-key", WithBaseURL(srv.URL)), " Austin, TX ")
	require.NoError(t, err)
	assert.InDelta(t, 30.2672, ll.Lat, 1e-9)
	assert.InDelta(t, -97.7431, ll.Lng, 1e-9)
}

func TestLocate_ZeroResults(t *testing.T) {
	srv := geocodeServer(t, GeocodeResponse{Status: "ZERO_RESULTS"})

	_, err := Locate(context.Background(), NewGeocoder("test-key", WithBaseURL(srv.URL)), "Austin, TX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestLocate_RequestDenied(t *testing.T) {
	srv := geocodeServer(t, GeocodeResponse{Status: "REQUEST_DENIED", ErrorMessage: "API key invalid"})

	_, err := Locate(context.Background(), NewGeocoder("test-key", WithBaseURL(srv.URL)), "Austin, TX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key invalid")
}

func TestLocate_EmptyAddress(t *testing.T) {
	_, err := Locate(context.Background(), NewGeocoder("test-key"), "  ")
	assert.Error(t, err)
}
