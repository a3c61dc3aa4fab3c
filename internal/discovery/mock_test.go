package discovery

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/taco-index/pkg/google"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// mockGoogleClient serves canned Nearby Search pages keyed by keyword. Page
// tokens are "<keyword>|<page>".
type mockGoogleClient struct {
	mu       sync.Mutex
	pages    map[string][]google.NearbySearchResponse
	errs     map[string]error
	requests []google.NearbySearchRequest
}

func (m *mockGoogleClient) NearbySearch(_ context.Context, req google.NearbySearchRequest) (*google.NearbySearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	page := 0
	if req.PageToken != "" {
		parts := strings.SplitN(req.PageToken, "|", 2)
		page, _ = strconv.Atoi(parts[1])
	}
	if err, ok := m.errs[req.Keyword+"|"+strconv.Itoa(page)]; ok {
		return nil, err
	}

	pages := m.pages[req.Keyword]
	if page >= len(pages) {
		return &google.NearbySearchResponse{Status: "ZERO_RESULTS"}, nil
	}
	resp := pages[page]
	if resp.Status == "" {
		resp.Status = google.StatusOK
	}
	if page+1 < len(pages) {
		resp.NextPageToken = req.Keyword + "|" + strconv.Itoa(page+1)
	}
	return &resp, nil
}

func (m *mockGoogleClient) PlaceDetails(_ context.Context, _ string, _ []string) (*google.PlaceDetailsResponse, error) {
	return &google.PlaceDetailsResponse{Status: "NOT_FOUND"}, nil
}

func place(id, name string, types ...string) google.Place {
	return google.Place{PlaceID: id, Name: name, Types: types}
}

func page(places ...google.Place) google.NearbySearchResponse {
	return google.NearbySearchResponse{Results: places}
}

func noDelay() *Pacer {
	return NewPacer(Pacing{})
}
