package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taco-index/internal/cost"
	"github.com/sells-group/taco-index/internal/discovery"
	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/internal/store"
	"github.com/sells-group/taco-index/pkg/google"
)

// sixTermFixture returns three places per search term. A and B recur under
// every term and C and D alternate, so four places are unique.
func sixTermFixture() *fakeGoogle {
	search := make(map[string][]google.Place)
	for i, term := range discovery.SearchTerms {
		third := place("C", "Casa Tortilla")
		if i%2 == 1 {
			third = place("D", "La Taqueria Familia Tortilla")
		}
		search[term] = []google.Place{
			place("A", "Taco Haven", "restaurant"),
			place("B", "Mexican Kitchen", "restaurant"),
			third,
		}
	}
	return &fakeGoogle{
		search: search,
		details: map[string]*google.PlaceDetails{
			"A": {
				PlaceID:          "A",
				Name:             "Taco Haven",
				FormattedAddress: "123 Main St, San Antonio, TX 78205, USA",
				Geometry:         &google.Geometry{Location: google.LatLng{Lat: 29.42, Lng: -98.49}},
				Rating:           ptr(4.5),
				Reviews: []google.Review{{
					AuthorName: "Ana",
					AuthorURL:  "https://example.com/ana",
					Rating:     5,
					Text:       "Great bean and cheese taco",
					Time:       1700000000,
				}},
			},
		},
	}
}

func newSQLite(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(t.TempDir() + "/taco.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestRun_EndToEnd(t *testing.T) {
	g := sixTermFixture()
	st := newSQLite(t)
	p := New(Deps{Google: g, APIKey: "K", Persister: NewPersister(st, nil)})

	res, err := p.Run(context.Background(), discovery.SearchParams{RadiusMeters: 1000})
	require.NoError(t, err)

	assert.Equal(t, StageDone, res.EndedAt)
	assert.Equal(t, 4, res.Found)
	assert.Equal(t, 4, res.Candidates)
	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 3, res.NoDetails)
	assert.NotEmpty(t, res.RunID)

	require.Len(t, res.Dataset.Restaurants, 4)
	assert.Equal(t, "D", res.Dataset.Restaurants[0].PlaceID)
	require.Len(t, res.Dataset.Tacos, 1)
	assert.Equal(t, 1, res.Dataset.Tacos[0].MentionCount)
	assert.Len(t, res.Dataset.Reviews, 1)
	assert.Empty(t, res.Dataset.Photos)

	// Every ranked candidate gets one detail call.
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, g.detailCalls)
	assert.Equal(t, cost.Usage{NearbySearches: len(discovery.SearchTerms), Details: 4}, res.Usage)
	assert.InDelta(t, cost.NewCalculator(cost.DefaultRates()).Estimate(res.Usage), res.EstimatedCost, 1e-9)

	stored, err := st.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored.Restaurants, 4)
	assert.Len(t, stored.Tacos, 1)
	assert.Len(t, stored.Reviews, 1)
	assert.Empty(t, stored.Photos)
	assert.Equal(t, PersistStats{Inserted: 6}, res.Persist)
}

func TestRun_CustomRates(t *testing.T) {
	rates := cost.Rates{NearbySearch: 1000}
	res, err := New(Deps{Google: &fakeGoogle{}, Rates: &rates}).Run(context.Background(), discovery.SearchParams{})
	require.NoError(t, err)
	assert.InDelta(t, float64(len(discovery.SearchTerms)), res.EstimatedCost, 1e-9)
}

func TestRun_SecondRunDoesNotDuplicate(t *testing.T) {
	st := newSQLite(t)
	for i := 0; i < 2; i++ {
		p := New(Deps{Google: sixTermFixture(), APIKey: "K", Persister: NewPersister(st, nil)})
		res, err := p.Run(context.Background(), discovery.SearchParams{})
		require.NoError(t, err)
		if i == 1 {
			assert.Equal(t, PersistStats{Ignored: 6}, res.Persist)
		}
	}

	stored, err := st.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored.Restaurants, 4)
	assert.Len(t, stored.Tacos, 1)
	assert.Len(t, stored.Reviews, 1)
}

func TestRun_NoPlacesEndsEarly(t *testing.T) {
	g := &fakeGoogle{}
	res, err := New(Deps{Google: g}).Run(context.Background(), discovery.SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, StageSearching, res.EndedAt)
	assert.True(t, res.Dataset.Empty())
	assert.Empty(t, g.detailCalls)
	assert.Zero(t, res.Usage.Details)
}

func TestRun_NothingPassesFilterEndsEarly(t *testing.T) {
	g := &fakeGoogle{search: map[string][]google.Place{
		discovery.SearchTerms[0]: {place("X", "Sushi Palace", "restaurant")},
	}}
	res, err := New(Deps{Google: g}).Run(context.Background(), discovery.SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, StageFiltering, res.EndedAt)
	assert.Equal(t, 1, res.Found)
	assert.Equal(t, 0, res.Candidates)
	assert.True(t, res.Dataset.Empty())
	assert.Empty(t, g.detailCalls)
}

func TestRun_WithoutPersister(t *testing.T) {
	res, err := New(Deps{Google: sixTermFixture()}).Run(context.Background(), discovery.SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, StageDone, res.EndedAt)
	assert.Len(t, res.Dataset.Restaurants, 4)
	assert.Equal(t, PersistStats{}, res.Persist)
}

func TestRun_CancelledReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(Deps{Google: sixTermFixture()}).Run(ctx, discovery.SearchParams{})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Processed)
}

func TestRun_RestaurantFallsBackToSearchFields(t *testing.T) {
	g := &fakeGoogle{search: map[string][]google.Place{
		discovery.SearchTerms[0]: {{
			PlaceID:  "T",
			Name:     "Taqueria Sol",
			Geometry: google.Geometry{Location: google.LatLng{Lat: 29.1, Lng: -98.2}},
			Rating:   ptr(4.1),
		}},
	}}
	res, err := New(Deps{Google: g}).Run(context.Background(), discovery.SearchParams{})
	require.NoError(t, err)

	require.Len(t, res.Dataset.Restaurants, 1)
	r := res.Dataset.Restaurants[0]
	assert.Equal(t, model.RestaurantID("T"), r.ID)
	assert.Equal(t, "Taqueria Sol", r.Name)
	assert.Equal(t, 29.1, r.Latitude)
	assert.Empty(t, r.StreetAddress)
	assert.Equal(t, 4.1, *r.GoogleRating)
}
