package google

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// Geocoder resolves free-form addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
}

// GeocodeResult is one Geocoding API match.
type GeocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
	Types            []string `json:"types"`
}

// GeocodeResponse is the Geocoding API envelope.
type GeocodeResponse struct {
	Status       string          `json:"status"`
	Results      []GeocodeResult `json:"results"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// NewGeocoder creates a Geocoding API client. It accepts the same options as
// NewClient.
func NewGeocoder(apiKey string, opts ...Option) Geocoder {
	return NewClient(apiKey, opts...).(*httpClient)
}

func (c *httpClient) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	q := url.Values{}
	q.Set("address", address)

	var result GeocodeResponse
	if err := c.get(ctx, "/geocode/json", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Locate geocodes address and returns the first match's location.
func Locate(ctx context.Context, g Geocoder, address string) (LatLng, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return LatLng{}, eris.New("google: empty address")
	}
	resp, err := g.Geocode(ctx, address)
	if err != nil {
		return LatLng{}, eris.Wrapf(err, "google: geocode %q", address)
	}
	if resp.Status != StatusOK || len(resp.Results) == 0 {
		if resp.ErrorMessage != "" {
			return LatLng{}, eris.Errorf("google: geocode %q: %s: %s", address, resp.Status, resp.ErrorMessage)
		}
		return LatLng{}, eris.Errorf("google: geocode %q: %s", address, resp.Status)
	}
	return resp.Results[0].Geometry.Location, nil
}
