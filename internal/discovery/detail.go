package discovery

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/taco-index/internal/monitoring"
	"github.com/sells-group/taco-index/internal/resilience"
	"github.com/sells-group/taco-index/pkg/google"
)

// DetailFields is the field mask requested for every place.
var DetailFields = []string{
	"name",
	"formatted_address",
	"formatted_phone_number",
	"website",
	"rating",
	"reviews",
	"price_level",
	"opening_hours",
	"geometry",
	"place_id",
	"photos",
	"user_ratings_total",
}

// DetailFetcher retrieves the detail record of a single place.
type DetailFetcher struct {
	google  google.Client
	pacer   *Pacer
	metrics *monitoring.Metrics
}

// NewDetailFetcher creates a DetailFetcher. metrics may be nil.
func NewDetailFetcher(g google.Client, pacer *Pacer, metrics *monitoring.Metrics) *DetailFetcher {
	return &DetailFetcher{google: g, pacer: pacer, metrics: metrics}
}

// Fetch returns the place's details. A failed call or a non-OK status is a
// soft failure; only context cancellation is fatal.
func (f *DetailFetcher) Fetch(ctx context.Context, placeID string) resilience.Result[*google.PlaceDetails] {
	if err := f.pacer.Request(ctx); err != nil {
		return resilience.Abort[*google.PlaceDetails](eris.Wrap(err, "discovery: rate limit wait"))
	}

	resp, err := f.google.PlaceDetails(ctx, placeID, DetailFields)
	if err != nil {
		f.metrics.DetailRequest("error")
		if ctx.Err() != nil {
			return resilience.Abort[*google.PlaceDetails](ctx.Err())
		}
		return resilience.Soft[*google.PlaceDetails](nil, eris.Wrapf(err, "discovery: details %s", placeID))
	}
	f.metrics.DetailRequest(resp.Status)

	if resp.Status != google.StatusOK || resp.Result == nil {
		return resilience.Soft[*google.PlaceDetails](nil, eris.Errorf("discovery: details %s: status %s", placeID, resp.Status))
	}
	return resilience.Ok(resp.Result)
}
