package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "joinfeed/internal/platform/errors"
	"joinfeed/internal/services/fresh/domain"
)

// gateFetcher blocks each Fetch until released and counts upstream calls
type gateFetcher struct {
	calls atomic.Int64
	gate  chan struct{}
	msgs  []domain.Message
	err   error
}

func (f *gateFetcher) Fetch(ctx context.Context, _ int) ([]domain.Message, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.msgs, f.err
}

func countingSink(n *atomic.Int64) func(context.Context, domain.Message) int {
	return func(context.Context, domain.Message) int {
		n.Add(1)
		return 1
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached in time")
}

func TestOrchestrator_AtMostOneInFlight(t *testing.T) {
	f := &gateFetcher{gate: make(chan struct{})}
	var sunk atomic.Int64
	o := NewOrchestrator(f, countingSink(&sunk), 10, time.Second)

	var started atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if o.TryRefresh(context.Background()) {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	waitFor(t, func() bool { return f.calls.Load() == 1 })
	if started.Load() != 1 {
		t.Fatalf("started = %d, want exactly 1 cycle", started.Load())
	}

	close(f.gate)
	waitFor(t, func() bool { return o.Snapshot().Attempts == 1 && idle(o) })
}

// idle reports whether no cycle is currently in flight
func idle(o *Orchestrator) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.done == nil
}

func TestOrchestrator_RefreshWaitCoalesces(t *testing.T) {
	f := &gateFetcher{gate: make(chan struct{})}
	var sunk atomic.Int64
	o := NewOrchestrator(f, countingSink(&sunk), 10, time.Second)

	if !o.TryRefresh(context.Background()) {
		t.Fatalf("first trigger should start the cycle")
	}
	waitFor(t, func() bool { return f.calls.Load() == 1 })

	// bounded wait while the cycle is stuck: degrade, do not hang
	start := time.Now()
	if o.RefreshWait(context.Background(), 20*time.Millisecond) {
		t.Fatalf("expected degraded return while fetch is in flight")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("RefreshWait exceeded its bound")
	}

	close(f.gate)
	waitFor(t, func() bool { return o.Snapshot().Attempts >= 1 })
	if f.calls.Load() != 1 {
		t.Fatalf("calls = %d, coalescing must not issue a second fetch", f.calls.Load())
	}
}

func TestOrchestrator_FailureCountingAndDegraded(t *testing.T) {
	f := &gateFetcher{err: perr.Unavailablef("upstream down")}
	var sunk atomic.Int64
	o := NewOrchestrator(f, countingSink(&sunk), 10, time.Second)

	for i := 0; i < 3; i++ {
		o.RefreshWait(context.Background(), time.Second)
	}
	c := o.Snapshot()
	if c.Failures != 3 || c.ConsecFails != 3 {
		t.Fatalf("counters = %+v", c)
	}
	if !o.Degraded(3) {
		t.Fatalf("expected degraded after 3 consecutive failures")
	}
	if c.LastError == nil || c.LastError.Message == "" {
		t.Fatalf("last error not recorded: %+v", c)
	}

	// one success resets the consecutive counter
	f.err = nil
	o.RefreshWait(context.Background(), time.Second)
	c = o.Snapshot()
	if c.ConsecFails != 0 || c.Successes != 1 {
		t.Fatalf("counters after recovery = %+v", c)
	}
	if o.Degraded(3) {
		t.Fatalf("recovered orchestrator must not stay degraded")
	}
	if c.LastFetch.IsZero() {
		t.Fatalf("last fetch timestamp not recorded")
	}
}

func TestOrchestrator_BatchDedupByMessageID(t *testing.T) {
	f := &gateFetcher{msgs: []domain.Message{
		{ID: "m1", Text: "a"},
		{ID: "m1", Text: "a again"},
		{ID: "m2", Text: "b"},
	}}
	var sunk atomic.Int64
	o := NewOrchestrator(f, countingSink(&sunk), 10, time.Second)

	o.RefreshWait(context.Background(), time.Second)
	if sunk.Load() != 2 {
		t.Fatalf("sink calls = %d, want 2 after in-batch dedup", sunk.Load())
	}
	if o.Snapshot().TotalSeen != 2 {
		t.Fatalf("total seen = %d", o.Snapshot().TotalSeen)
	}
}
