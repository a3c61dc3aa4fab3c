// Package discovery finds candidate restaurants: it runs the keyword searches,
// deduplicates and scores the results, and fetches place details.
package discovery

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/internal/monitoring"
	"github.com/sells-group/taco-index/internal/resilience"
	"github.com/sells-group/taco-index/pkg/google"
)

// placeType restricts Nearby Search to restaurants.
const placeType = "restaurant"

// SearchTerms is the fixed keyword list queried on every run.
var SearchTerms = []string{
	"bean and cheese taco",
	"bean cheese taco",
	"breakfast taco",
	"mexican restaurant bean taco",
	"taqueria bean cheese",
	"tex mex bean cheese taco",
}

// SearchParams bounds a search run.
type SearchParams struct {
	Center       model.LatLng
	RadiusMeters int
	Terms        []string
}

// Aggregator runs every search term against Nearby Search and merges the results.
type Aggregator struct {
	google  google.Client
	pacer   *Pacer
	metrics *monitoring.Metrics
}

// NewAggregator creates an Aggregator. metrics may be nil.
func NewAggregator(g google.Client, pacer *Pacer, metrics *monitoring.Metrics) *Aggregator {
	return &Aggregator{google: g, pacer: pacer, metrics: metrics}
}

// Search queries each term in order, following continuation tokens, and returns
// the places deduplicated by place id. The first occurrence of an id wins, so
// order follows first appearance. A failing term contributes whatever pages it
// returned before failing. Only context cancellation returns an error.
func (a *Aggregator) Search(ctx context.Context, params SearchParams) ([]model.Candidate, error) {
	log := zap.L().With(zap.String("component", "search"))

	terms := params.Terms
	if len(terms) == 0 {
		terms = SearchTerms
	}

	seen := make(map[string]bool)
	var out []model.Candidate

	for i, term := range terms {
		if i > 0 {
			if err := a.pacer.Term(ctx); err != nil {
				return out, eris.Wrap(err, "discovery: term delay")
			}
		}

		res := a.searchTerm(ctx, term, params)
		switch res.Kind {
		case resilience.Fatal:
			return out, res.Err
		case resilience.SoftFailure:
			a.metrics.SoftFailure("search")
			log.Warn("search term failed", zap.String("term", term), zap.Int("kept", len(res.Value)), zap.Error(res.Err))
		}

		added := 0
		for _, p := range res.Value {
			if p.PlaceID == "" || seen[p.PlaceID] {
				continue
			}
			seen[p.PlaceID] = true
			out = append(out, candidateFromPlace(p, term))
			added++
		}
		log.Info("search term complete",
			zap.String("term", term),
			zap.Int("results", len(res.Value)),
			zap.Int("new", added),
		)
	}

	a.metrics.Candidates("found", len(out))
	log.Info("search complete", zap.Int("unique_places", len(out)))
	return out, nil
}

// searchTerm pages through a single term. Transport or status failures end the
// term as a soft failure carrying the pages already read.
func (a *Aggregator) searchTerm(ctx context.Context, term string, params SearchParams) resilience.Result[[]google.Place] {
	var (
		places    []google.Place
		pageToken string
	)

	for {
		if pageToken != "" {
			if err := a.pacer.PageToken(ctx); err != nil {
				return resilience.Abort[[]google.Place](eris.Wrap(err, "discovery: page token delay"))
			}
		}
		if err := a.pacer.Request(ctx); err != nil {
			return resilience.Abort[[]google.Place](eris.Wrap(err, "discovery: rate limit wait"))
		}

		resp, err := a.google.NearbySearch(ctx, google.NearbySearchRequest{
			Location:  google.LatLng{Lat: params.Center.Lat, Lng: params.Center.Lng},
			Radius:    params.RadiusMeters,
			Keyword:   term,
			Type:      placeType,
			PageToken: pageToken,
		})
		if err != nil {
			a.metrics.SearchRequest("error")
			if ctx.Err() != nil {
				return resilience.Abort[[]google.Place](ctx.Err())
			}
			return resilience.Soft(places, eris.Wrapf(err, "discovery: nearby search %q", term))
		}
		a.metrics.SearchRequest(resp.Status)

		// ZERO_RESULTS is a normal empty page; anything else not OK ends the term.
		switch resp.Status {
		case google.StatusOK:
		case "ZERO_RESULTS":
			return resilience.Ok(places)
		default:
			return resilience.Soft(places, eris.Errorf("discovery: nearby search %q: status %s: %s", term, resp.Status, resp.ErrorMessage))
		}

		places = append(places, resp.Results...)
		if resp.NextPageToken == "" {
			return resilience.Ok(places)
		}
		pageToken = resp.NextPageToken
	}
}

// Rank scores candidates, drops those that do not qualify, and orders the rest
// by score descending. Ties keep their search order.
func Rank(candidates []model.Candidate) []model.Candidate {
	var out []model.Candidate
	for _, c := range candidates {
		r := Score(c.Name, c.Types)
		if !r.Include() {
			continue
		}
		c.Score = r.Score()
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func candidateFromPlace(p google.Place, term string) model.Candidate {
	return model.Candidate{
		PlaceID:          p.PlaceID,
		Name:             p.Name,
		Types:            p.Types,
		Vicinity:         p.Vicinity,
		Location:         model.LatLng{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
		Rating:           p.Rating,
		PriceLevel:       p.PriceLevel,
		UserRatingsTotal: p.UserRatingsTotal,
		Term:             term,
	}
}
