package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/taco-index/pkg/google"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeGoogle serves one Nearby Search page per keyword and details by place id.
// Unknown places answer NOT_FOUND.
type fakeGoogle struct {
	mu      sync.Mutex
	search  map[string][]google.Place
	details map[string]*google.PlaceDetails

	detailCalls []string
}

func (f *fakeGoogle) NearbySearch(_ context.Context, req google.NearbySearchRequest) (*google.NearbySearchResponse, error) {
	places, ok := f.search[req.Keyword]
	if !ok {
		return &google.NearbySearchResponse{Status: "ZERO_RESULTS"}, nil
	}
	return &google.NearbySearchResponse{Status: google.StatusOK, Results: places}, nil
}

func (f *fakeGoogle) PlaceDetails(_ context.Context, placeID string, _ []string) (*google.PlaceDetailsResponse, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, placeID)
	f.mu.Unlock()

	d, ok := f.details[placeID]
	if !ok {
		return &google.PlaceDetailsResponse{Status: "NOT_FOUND"}, nil
	}
	return &google.PlaceDetailsResponse{Status: google.StatusOK, Result: d}, nil
}

func place(id, name string, types ...string) google.Place {
	return google.Place{PlaceID: id, Name: name, Types: types}
}

func ptr[T any](v T) *T { return &v }
