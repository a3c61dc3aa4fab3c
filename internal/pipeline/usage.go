package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/sells-group/taco-index/internal/cost"
	"github.com/sells-group/taco-index/pkg/google"
)

// countingClient tallies billable Places requests, including failed ones.
type countingClient struct {
	google.Client
	searches atomic.Int64
	details  atomic.Int64
}

func (c *countingClient) NearbySearch(ctx context.Context, req google.NearbySearchRequest) (*google.NearbySearchResponse, error) {
	c.searches.Add(1)
	return c.Client.NearbySearch(ctx, req)
}

func (c *countingClient) PlaceDetails(ctx context.Context, placeID string, fields []string) (*google.PlaceDetailsResponse, error) {
	c.details.Add(1)
	return c.Client.PlaceDetails(ctx, placeID, fields)
}

// usage reports the requests made since the last call and resets the tally.
func (c *countingClient) usage() cost.Usage {
	return cost.Usage{
		NearbySearches: int(c.searches.Swap(0)),
		Details:        int(c.details.Swap(0)),
	}
}
