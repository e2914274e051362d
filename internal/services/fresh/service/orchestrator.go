package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"joinfeed/internal/platform/logger"
	"joinfeed/internal/services/fresh/domain"
)

// Orchestrator drives fetch cycles and guards the upstream against
// overlapping calls: at most one fetch is in flight at a time, however
// many timers and inbound requests trigger at once
type Orchestrator struct {
	fetcher domain.FetcherPort
	sink    func(ctx context.Context, msg domain.Message) int
	log     logger.Logger

	batch   int
	timeout time.Duration

	mu   sync.Mutex
	done chan struct{} // non-nil while a cycle runs

	attempts    atomic.Int64
	successes   atomic.Int64
	failures    atomic.Int64
	totalSeen   atomic.Int64
	consecFails atomic.Int64

	lastFetchUnix atomic.Int64

	errMu   sync.Mutex
	lastErr *domain.LastError

	now func() time.Time // test seam
}

// NewOrchestrator wires a fetcher to an ingest sink
func NewOrchestrator(f domain.FetcherPort, sink func(context.Context, domain.Message) int, batch int, timeout time.Duration) *Orchestrator {
	if f == nil {
		panic("fresh.Orchestrator requires a fetcher")
	}
	if sink == nil {
		panic("fresh.Orchestrator requires a sink")
	}
	if batch <= 0 {
		batch = 25
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Orchestrator{
		fetcher: f,
		sink:    sink,
		log:     *logger.Named("orchestrator"),
		batch:   batch,
		timeout: timeout,
		now:     time.Now,
	}
}

// TryRefresh starts a cycle in the background unless one is already in
// flight. Never blocks the caller; returns whether this call started it
func (o *Orchestrator) TryRefresh(ctx context.Context) bool {
	ch, mine := o.begin()
	if !mine {
		return false
	}
	// detach from the request so the cycle survives the response write
	bg := context.WithoutCancel(ctx)
	go func() {
		defer o.end(ch)
		o.runCycle(bg)
	}()
	return true
}

// RefreshWait runs a cycle synchronously, or coalesces onto the one in
// flight for at most bound before degrading to the stale snapshot.
// Returns whether fresh data may have landed
func (o *Orchestrator) RefreshWait(ctx context.Context, bound time.Duration) bool {
	ch, mine := o.begin()
	if mine {
		defer o.end(ch)
		o.runCycle(ctx)
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(bound):
		return false
	case <-ctx.Done():
		return false
	}
}

// Counters is a point-in-time view of the orchestrator diagnostics
type Counters struct {
	Attempts     int64
	Successes    int64
	Failures     int64
	TotalSeen    int64
	ConsecFails  int64
	LastFetch    time.Time
	LastError    *domain.LastError
}

// Snapshot returns the current counters
func (o *Orchestrator) Snapshot() Counters {
	var lf time.Time
	if u := o.lastFetchUnix.Load(); u > 0 {
		lf = time.Unix(u, 0).UTC()
	}
	o.errMu.Lock()
	le := o.lastErr
	o.errMu.Unlock()
	return Counters{
		Attempts:    o.attempts.Load(),
		Successes:   o.successes.Load(),
		Failures:    o.failures.Load(),
		TotalSeen:   o.totalSeen.Load(),
		ConsecFails: o.consecFails.Load(),
		LastFetch:   lf,
		LastError:   le,
	}
}

// Degraded reports whether the upstream has failed at least threshold
// consecutive cycles
func (o *Orchestrator) Degraded(threshold int) bool {
	return o.consecFails.Load() >= int64(threshold)
}

func (o *Orchestrator) begin() (chan struct{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done != nil {
		return o.done, false
	}
	o.done = make(chan struct{})
	return o.done, true
}

func (o *Orchestrator) end(ch chan struct{}) {
	o.mu.Lock()
	o.done = nil
	o.mu.Unlock()
	close(ch)
}

// runCycle performs one fetch and feeds every message into the sink.
// Errors stay contained here: the publisher only ever sees buffer state
func (o *Orchestrator) runCycle(ctx context.Context) {
	o.attempts.Add(1)

	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	msgs, err := o.fetcher.Fetch(cctx, o.batch)
	if err != nil {
		o.failures.Add(1)
		o.consecFails.Add(1)
		o.recordError(err)
		o.log.Warn().Err(err).Int64("consecutive", o.consecFails.Load()).Msg("fetch cycle failed")
		return
	}
	o.successes.Add(1)
	o.consecFails.Store(0)
	o.lastFetchUnix.Store(o.now().Unix())

	seen := make(map[string]struct{}, len(msgs))
	accepted := 0
	for _, m := range msgs {
		if m.ID != "" {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
		}
		accepted += o.sink(ctx, m)
	}
	o.totalSeen.Add(int64(accepted))
	if accepted > 0 {
		o.log.Debug().Int("messages", len(msgs)).Int("accepted", accepted).Msg("fetch cycle done")
	}
}

func (o *Orchestrator) recordError(err error) {
	o.errMu.Lock()
	o.lastErr = &domain.LastError{
		Message: err.Error(),
		At:      o.now().UTC().Format(time.RFC3339),
	}
	o.errMu.Unlock()
}
