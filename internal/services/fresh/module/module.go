// Package module wires the fresh pipeline worker and exposes its ports
package module

import (
	"joinfeed/internal/core/extract"
	"joinfeed/internal/modkit"
	"joinfeed/internal/modkit/httpkit"
	"joinfeed/internal/services/fresh/domain"
	"joinfeed/internal/services/fresh/service"
)

// Deps are the non-config dependencies the pipeline needs injected
type Deps struct {
	Fetcher   domain.FetcherPort
	Extractor *extract.Extractor
	Reactor   domain.ReactorPort // optional
}

// Module defines the fresh worker module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the fresh worker module with its ports
func New(deps modkit.Deps, pipe Deps, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.Window != 0 {
		opts.Window = overrides.Window
	}
	if overrides.MaxEntries != 0 {
		opts.MaxEntries = overrides.MaxEntries
	}
	if overrides.Mode != "" {
		opts.Mode = overrides.Mode
	}
	if overrides.FailCycles != 0 {
		opts.FailCycles = overrides.FailCycles
	}
	if overrides.BlockBound != 0 {
		opts.BlockBound = overrides.BlockBound
	}
	if overrides.Batch != 0 {
		opts.Batch = overrides.Batch
	}
	if overrides.FetchTimeout != 0 {
		opts.FetchTimeout = overrides.FetchTimeout
	}
	if overrides.PollInterval != 0 {
		opts.PollInterval = overrides.PollInterval
	}

	svc := service.New(service.Config{
		Window:       opts.Window,
		MaxEntries:   opts.MaxEntries,
		Mode:         opts.Mode,
		FailCycles:   opts.FailCycles,
		BlockBound:   opts.BlockBound,
		Batch:        opts.Batch,
		FetchTimeout: opts.FetchTimeout,
		PollInterval: opts.PollInterval,
		BotOnly:      opts.BotOnly,
	}, pipe.Fetcher, pipe.Extractor)
	if pipe.Reactor != nil {
		svc.WithReactor(pipe.Reactor)
	}

	m := &Module{deps: deps}
	m.ports = Ports{
		Reader: svc,
		Ingest: svc,
		Debug:  svc,
		Runner: svc,
	}
	return m
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "fresh" }

// MountRoutes returns no HTTP routes; the api fresh module publishes
func (m *Module) MountRoutes(_ httpkit.Router) {}
