package module

import (
	"context"

	dom "joinfeed/internal/services/fresh/domain"
)

// RunnerPort drives the background prewarm and sweep loop
type RunnerPort interface {
	Run(ctx context.Context)
}

// Ports holds the ports exposed by the fresh module
type Ports struct {
	Reader dom.ReaderPort
	Ingest dom.IngestPort
	Debug  dom.DebugPort
	Runner RunnerPort
}
