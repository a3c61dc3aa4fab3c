package discovery

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacing holds the delays observed between outbound calls.
type Pacing struct {
	RequestDelay   time.Duration // minimum spacing between any two API calls
	PageTokenDelay time.Duration // wait before a continuation token becomes valid
	TermDelay      time.Duration // pause between search terms
	CandidateDelay time.Duration // pause after each processed candidate
}

// DefaultPacing returns the delays used against the live API.
func DefaultPacing() Pacing {
	return Pacing{
		RequestDelay:   100 * time.Millisecond,
		PageTokenDelay: 2 * time.Second,
		TermDelay:      500 * time.Millisecond,
		CandidateDelay: 100 * time.Millisecond,
	}
}

// Pacer enforces Pacing. Zero delays disable waiting, which tests rely on.
type Pacer struct {
	cfg     Pacing
	limiter *rate.Limiter
}

// NewPacer creates a Pacer for cfg.
func NewPacer(cfg Pacing) *Pacer {
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}
	return &Pacer{cfg: cfg, limiter: rate.NewLimiter(limit, 1)}
}

// Request blocks until the next API call may be issued.
func (p *Pacer) Request(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// PageToken waits out the continuation-token activation delay.
func (p *Pacer) PageToken(ctx context.Context) error {
	return sleep(ctx, p.cfg.PageTokenDelay)
}

// Term pauses between search terms.
func (p *Pacer) Term(ctx context.Context) error {
	return sleep(ctx, p.cfg.TermDelay)
}

// Candidate pauses after a candidate has been processed.
func (p *Pacer) Candidate(ctx context.Context) error {
	return sleep(ctx, p.cfg.CandidateDelay)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
