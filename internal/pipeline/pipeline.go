// Package pipeline runs a collection: search, filter, then fetch, extract and
// persist each candidate in turn.
package pipeline

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taco-index/internal/cost"
	"github.com/sells-group/taco-index/internal/discovery"
	"github.com/sells-group/taco-index/internal/extract"
	"github.com/sells-group/taco-index/internal/model"
	"github.com/sells-group/taco-index/internal/monitoring"
	"github.com/sells-group/taco-index/internal/resilience"
	"github.com/sells-group/taco-index/pkg/google"
)

// Stage is a step of a collection run.
type Stage string

// Run stages, in order. Fetching, extracting and persisting repeat per candidate.
const (
	StageSearching  Stage = "searching"
	StageFiltering  Stage = "filtering"
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
)

// Result is the outcome of a run.
type Result struct {
	RunID      string       `json:"run_id"`
	Found      int          `json:"found"`      // unique places returned by search
	Candidates int          `json:"candidates"` // places that passed filtering
	Processed  int          `json:"processed"`
	NoDetails  int          `json:"no_details"`
	Persist    PersistStats `json:"persist"`
	Usage      cost.Usage   `json:"usage"`
	// EstimatedCost is the list price of Usage in USD.
	EstimatedCost float64       `json:"estimated_cost"`
	Dataset       model.Dataset `json:"dataset"`
	Duration      time.Duration `json:"duration"`
	// EndedAt is the stage the run finished in. Early exits end in searching
	// or filtering.
	EndedAt Stage `json:"ended_at"`
}

// Pipeline wires the run stages together.
type Pipeline struct {
	client    *countingClient
	calc      *cost.Calculator
	search    *discovery.Aggregator
	details   *discovery.DetailFetcher
	extractor *extract.Extractor
	persister *Persister
	pacer     *discovery.Pacer
	metrics   *monitoring.Metrics
}

// Deps are the collaborators of a Pipeline. Persister may be nil to collect
// without saving; Metrics may be nil. A nil Rates uses cost.DefaultRates.
type Deps struct {
	Google    google.Client
	APIKey    string
	Pacing    discovery.Pacing
	Persister *Persister
	Metrics   *monitoring.Metrics
	Rates     *cost.Rates
}

// New creates a Pipeline. The search and detail stages share one pacer.
func New(d Deps) *Pipeline {
	pacer := discovery.NewPacer(d.Pacing)
	client := &countingClient{Client: d.Google}
	rates := cost.DefaultRates()
	if d.Rates != nil {
		rates = *d.Rates
	}
	return &Pipeline{
		client:    client,
		calc:      cost.NewCalculator(rates),
		search:    discovery.NewAggregator(client, pacer, d.Metrics),
		details:   discovery.NewDetailFetcher(client, pacer, d.Metrics),
		extractor: extract.New(d.APIKey),
		persister: d.Persister,
		pacer:     pacer,
		metrics:   d.Metrics,
	}
}

// Run executes one collection. Provider and persistence failures are contained
// to the candidate they occur on; the returned error is non-nil only when ctx
// is cancelled, in which case the partial result is returned as well.
func (p *Pipeline) Run(ctx context.Context, params discovery.SearchParams) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: ulid.Make().String(), EndedAt: StageSearching}
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("run_id", res.RunID))
	p.client.usage()
	defer func() {
		res.Usage = p.client.usage()
		res.EstimatedCost = p.calc.Estimate(res.Usage)
		res.Duration = time.Since(start)
		p.metrics.RunFinished(res.Duration, time.Now())
	}()

	log.Info("pipeline: searching",
		zap.Float64("lat", params.Center.Lat),
		zap.Float64("lng", params.Center.Lng),
		zap.Int("radius_m", params.RadiusMeters),
	)
	found, err := p.search.Search(ctx, params)
	if err != nil {
		return res, eris.Wrap(err, "pipeline: search")
	}
	res.Found = len(found)
	if len(found) == 0 {
		log.Warn("pipeline: no places found")
		return res, nil
	}

	res.EndedAt = StageFiltering
	candidates := discovery.Rank(found)
	res.Candidates = len(candidates)
	p.metrics.Candidates("ranked", len(candidates))
	if len(candidates) == 0 {
		log.Warn("pipeline: no candidates after filtering", zap.Int("found", len(found)))
		return res, nil
	}
	log.Info("pipeline: candidates ranked", zap.Int("found", len(found)), zap.Int("kept", len(candidates)))

	for i, c := range candidates {
		clog := log.With(zap.String("place_id", c.PlaceID), zap.String("name", c.Name))
		clog.Info("pipeline: processing candidate",
			zap.Int("n", i+1),
			zap.Int("of", len(candidates)),
			zap.Int("score", c.Score),
		)

		stage, err := p.processCandidate(ctx, c, res, clog)
		res.EndedAt = stage
		if err != nil {
			return res, err
		}
		res.Processed++

		if err := p.pacer.Candidate(ctx); err != nil {
			return res, eris.Wrap(err, "pipeline: candidate delay")
		}
	}

	res.EndedAt = StageDone
	log.Info("pipeline: collection complete",
		zap.Int("restaurants", len(res.Dataset.Restaurants)),
		zap.Int("tacos", len(res.Dataset.Tacos)),
		zap.Int("reviews", len(res.Dataset.Reviews)),
		zap.Int("photos", len(res.Dataset.Photos)),
		zap.Int("rows_inserted", res.Persist.Inserted),
		zap.Int("rows_failed", res.Persist.Failed),
		zap.Int64("detail_requests", p.client.details.Load()),
	)
	return res, nil
}

// processCandidate runs fetch, extract and persist for one candidate and
// appends its entities to res. It returns the last stage reached.
func (p *Pipeline) processCandidate(ctx context.Context, c model.Candidate, res *Result, log *zap.Logger) (Stage, error) {
	detail := p.details.Fetch(ctx, c.PlaceID)
	switch detail.Kind {
	case resilience.Fatal:
		return StageFetching, detail.Err
	case resilience.SoftFailure:
		res.NoDetails++
		p.metrics.SoftFailure("details")
		log.Warn("pipeline: continuing without details", zap.Object("detail", detail))
	}

	entities := p.extractor.Extract(c, detail.Value)
	res.Dataset.Restaurants = append(res.Dataset.Restaurants, entities.Restaurant)
	res.Dataset.Tacos = append(res.Dataset.Tacos, entities.Tacos...)
	res.Dataset.Photos = append(res.Dataset.Photos, entities.Photos...)
	res.Dataset.Reviews = append(res.Dataset.Reviews, entities.Reviews...)

	if p.persister == nil {
		return StageExtracting, nil
	}
	stats, err := p.persister.Persist(ctx, entities)
	res.Persist.add(stats)
	return StagePersisting, err
}
