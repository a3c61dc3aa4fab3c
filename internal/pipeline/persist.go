package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taco-index/internal/db"
	"github.com/sells-group/taco-index/internal/extract"
	"github.com/sells-group/taco-index/internal/monitoring"
	"github.com/sells-group/taco-index/internal/resilience"
	"github.com/sells-group/taco-index/internal/store"
)

// Row outcomes reported to metrics.
const (
	outcomeInserted = "inserted"
	outcomeIgnored  = "ignored"
	outcomeFailed   = "failed"
)

// PersistStats counts insert outcomes.
type PersistStats struct {
	Inserted int `json:"inserted"`
	Ignored  int `json:"ignored"`
	Failed   int `json:"failed"`
}

func (s *PersistStats) add(o PersistStats) {
	s.Inserted += o.Inserted
	s.Ignored += o.Ignored
	s.Failed += o.Failed
}

// pendingRow is one insert; name identifies the entity in logs.
type pendingRow struct {
	table string
	name  string
	row   *db.Row
}

// Persister writes a candidate's entities: the restaurant, then its tacos and
// each taco's photos, then the reviews. Every insert ignores rows whose id is
// already stored, so replaying a run is safe.
type Persister struct {
	store   store.Store
	metrics *monitoring.Metrics

	reviewColumnsReady bool
}

// NewPersister creates a Persister. metrics may be nil.
func NewPersister(st store.Store, metrics *monitoring.Metrics) *Persister {
	return &Persister{store: st, metrics: metrics}
}

// Persist stores one candidate's entities. A failed insert is logged and
// counted; later entities are still attempted. Only context cancellation
// returns an error.
func (p *Persister) Persist(ctx context.Context, e extract.Entities) (PersistStats, error) {
	var stats PersistStats

	steps := []pendingRow{{store.TableRestaurants, e.Restaurant.Name, store.RestaurantRow(e.Restaurant)}}
	for _, t := range e.Tacos {
		steps = append(steps, pendingRow{store.TableTacos, t.Name, store.TacoRow(t)})
		for _, ph := range e.Photos {
			if ph.TacoID == t.ID {
				steps = append(steps, pendingRow{store.TablePhotos, ph.URL, store.PhotoRow(ph)})
			}
		}
	}

	for _, s := range steps {
		res := p.insert(ctx, s.table, s.name, s.row)
		if res.IsFatal() {
			return stats, res.Err
		}
		stats.add(statsFor(res))
	}

	if len(e.Reviews) > 0 {
		p.ensureReviewColumns(ctx)
	}
	for _, rv := range e.Reviews {
		res := p.insert(ctx, store.TableReviews, rv.AuthorName, store.ReviewRow(rv))
		if res.IsFatal() {
			return stats, res.Err
		}
		stats.add(statsFor(res))
	}
	return stats, nil
}

// ensureReviewColumns adds the Google review columns the base schema lacks.
// It runs until it succeeds once; a failure is logged and the inserts that
// follow are left to fail on their own.
func (p *Persister) ensureReviewColumns(ctx context.Context) {
	if p.reviewColumnsReady {
		return
	}
	if err := p.store.EnsureColumns(ctx, store.TableReviews, store.ReviewColumns); err != nil {
		zap.L().Warn("persist: ensure review columns failed",
			zap.String("component", "persist"),
			zap.Error(err),
		)
		return
	}
	p.reviewColumnsReady = true
}

func (p *Persister) insert(ctx context.Context, table, name string, row *db.Row) resilience.Result[bool] {
	if err := ctx.Err(); err != nil {
		return resilience.Abort[bool](eris.Wrap(err, "persist: cancelled"))
	}

	inserted, err := p.store.InsertIgnore(ctx, table, row)
	if err != nil {
		p.metrics.Row(table, outcomeFailed)
		zap.L().Error("persist: insert failed",
			zap.String("component", "persist"),
			zap.String("table", table),
			zap.String("name", name),
			zap.Error(err),
		)
		return resilience.Soft(false, err)
	}

	if inserted {
		p.metrics.Row(table, outcomeInserted)
	} else {
		p.metrics.Row(table, outcomeIgnored)
		zap.L().Debug("persist: row already stored",
			zap.String("table", table),
			zap.String("name", name),
		)
	}
	return resilience.Ok(inserted)
}

func statsFor(res resilience.Result[bool]) PersistStats {
	switch {
	case res.Kind == resilience.SoftFailure:
		return PersistStats{Failed: 1}
	case res.Value:
		return PersistStats{Inserted: 1}
	default:
		return PersistStats{Ignored: 1}
	}
}
