// Package service contains the fresh pipeline workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"joinfeed/internal/core/extract"
	"joinfeed/internal/core/normalize"
	"joinfeed/internal/platform/logger"
	"joinfeed/internal/services/fresh/domain"
)

// Modes for serving a read while a fetch may be due
const (
	// ModeLazy kicks a background refresh and serves the current
	// snapshot immediately; the caller never waits on the upstream
	ModeLazy = "lazy"

	// ModeBlocking coalesces the caller onto the in-flight fetch for a
	// bounded time before degrading to the stale snapshot
	ModeBlocking = "blocking"
)

// Config carries the pipeline tunables
type Config struct {
	Window     time.Duration
	MaxEntries int

	Mode       string
	FailCycles int
	BlockBound time.Duration

	Batch        int
	FetchTimeout time.Duration

	PollInterval  time.Duration
	SweepInterval time.Duration

	BotOnly bool
}

// Service defines the fresh service contract
type Service interface {
	domain.ReaderPort
	domain.IngestPort
	domain.DebugPort
}

// Svc implements the fresh service
type Svc struct {
	cfg     Config
	buffer  *Buffer
	orch    *Orchestrator
	ex      *extract.Extractor
	reactor domain.ReactorPort
	log     logger.Logger

	instance  string
	startedAt time.Time

	now func() time.Time // test seam
}

// New constructs the fresh service around a fetcher and an extractor
func New(cfg Config, fetcher domain.FetcherPort, ex *extract.Extractor) *Svc {
	if fetcher == nil {
		panic("fresh.Service requires a non nil fetcher")
	}
	if ex == nil {
		panic("fresh.Service requires a non nil extractor")
	}
	if cfg.Window <= 0 {
		cfg.Window = 30 * time.Second
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 200
	}
	if cfg.Mode != ModeBlocking {
		cfg.Mode = ModeLazy
	}
	if cfg.FailCycles <= 0 {
		cfg.FailCycles = 3
	}
	if cfg.BlockBound <= 0 {
		cfg.BlockBound = 3 * time.Second
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.Window / 2
	}

	s := &Svc{
		cfg:       cfg,
		buffer:    NewBuffer(cfg.Window, cfg.MaxEntries),
		ex:        ex,
		log:       *logger.Named("fresh"),
		instance:  uuid.NewString(),
		startedAt: time.Now(),
		now:       time.Now,
	}
	s.orch = NewOrchestrator(fetcher, s.Ingest, cfg.Batch, cfg.FetchTimeout)
	return s
}

// WithReactor attaches a best-effort source acknowledger
func (s *Svc) WithReactor(r domain.ReactorPort) *Svc {
	s.reactor = r
	return s
}

// Ingest runs one message through acceptance: normalize, extract, then
// feed every candidate into the buffer. Returns the candidate count.
// Messages with no candidates are the common case and are skipped quietly
func (s *Svc) Ingest(ctx context.Context, msg domain.Message) int {
	if s.cfg.BotOnly && !msg.FromBot {
		return 0
	}
	cands := s.ex.ExtractMessage(msg.Text, msg.Blocks)
	if len(cands) == 0 {
		return 0
	}
	for _, c := range cands {
		s.buffer.Accept(c, msg.Author)
	}
	s.log.Debug().Str("message_id", msg.ID).Int("candidates", len(cands)).Msg("accepted")

	if s.reactor != nil && msg.ID != "" {
		// acknowledged off the critical path, failure swallowed
		go func(id string) {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
			defer cancel()
			if err := s.reactor.React(rctx, id); err != nil {
				s.log.Debug().Err(err).Str("message_id", id).Msg("react skipped")
			}
		}(msg.ID)
	}
	return len(cands)
}

// Fresh serves the current buffer contents, triggering a refresh per the
// configured mode. Never blocks unboundedly on the upstream
func (s *Svc) Fresh(ctx context.Context) domain.FreshPayload {
	switch s.cfg.Mode {
	case ModeBlocking:
		s.orch.RefreshWait(ctx, s.cfg.BlockBound)
	default:
		s.orch.TryRefresh(ctx)
	}

	s.buffer.EvictExpired()
	snap := s.buffer.Snapshot()
	now := s.now()

	items := make([]domain.Item, 0, len(snap))
	for _, e := range snap {
		items = append(items, domain.Item{
			Identifier: e.Identifier,
			AgeSeconds: int(now.Sub(e.ObservedAt) / time.Second),
			Source:     e.Source,
		})
	}

	p := domain.FreshPayload{
		Success:   true,
		Count:     len(items),
		Items:     items,
		Timestamp: now.UnixMilli(),
	}
	// an empty feed while the upstream keeps failing is "broken", not
	// "legitimately nothing new"; surviving entries keep the feed honest
	if len(items) == 0 && s.orch.Degraded(s.cfg.FailCycles) {
		p.Success = false
		if le := s.orch.Snapshot().LastError; le != nil {
			p.Error = le.Message
		} else {
			p.Error = "upstream unavailable"
		}
	}
	return p
}

// Status reports the diagnostic counters
func (s *Svc) Status(_ context.Context) domain.StatusPayload {
	c := s.orch.Snapshot()
	now := s.now()

	p := domain.StatusPayload{
		Instance:       s.instance,
		Mode:           s.cfg.Mode,
		UptimeSeconds:  int64(now.Sub(s.startedAt) / time.Second),
		WindowSeconds:  int(s.cfg.Window / time.Second),
		BufferSize:     s.buffer.Len(),
		CurrentlyFresh: len(s.buffer.Snapshot()),
		TotalSeen:      c.TotalSeen,
		FetchAttempts:  c.Attempts,
		FetchSuccesses: c.Successes,
		FetchFailures:  c.Failures,
		LastError:      c.LastError,
	}
	if !c.LastFetch.IsZero() {
		p.LastFetch = c.LastFetch.Format(time.RFC3339)
	}
	return p
}

// Extract runs raw text through the same normalize and extract steps the
// ingestion path uses; for validating pattern configuration
func (s *Svc) Extract(_ context.Context, text string) domain.ExtractResult {
	clean := normalize.Clean(text)
	ids := s.ex.Extract(clean)
	if ids == nil {
		ids = []string{}
	}
	return domain.ExtractResult{
		Found:       len(ids),
		Identifiers: ids,
		Platform:    s.ex.Platform(clean),
	}
}

// Run drives the background prewarm and eviction sweep until ctx ends.
// With PollInterval zero the pipeline refreshes only on demand
func (s *Svc) Run(ctx context.Context) {
	sweep := time.NewTicker(s.cfg.SweepInterval)
	defer sweep.Stop()

	var poll <-chan time.Time
	if s.cfg.PollInterval > 0 {
		t := time.NewTicker(s.cfg.PollInterval)
		defer t.Stop()
		poll = t.C
		s.orch.TryRefresh(ctx)
	}

	s.log.Info().
		Str("mode", s.cfg.Mode).
		Dur("window", s.cfg.Window).
		Dur("poll", s.cfg.PollInterval).
		Msg("fresh pipeline running")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("fresh pipeline stopped")
			return
		case <-poll:
			s.orch.TryRefresh(ctx)
		case <-sweep.C:
			if n := s.buffer.EvictExpired(); n > 0 {
				s.log.Debug().Int("evicted", n).Msg("sweep")
			}
		}
	}
}
