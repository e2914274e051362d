package domain

import "context"

// FetcherPort retrieves a bounded batch of recent upstream messages,
// newest first. Implementations own their timeout and retry policy
type FetcherPort interface {
	Fetch(ctx context.Context, limit int) ([]Message, error)
}

// IngestPort accepts one message into the pipeline. Both the poll cycle
// and a push listener funnel through it, so acceptance rules live in one
// place and the publisher stays agnostic to ingestion mode
type IngestPort interface {
	Ingest(ctx context.Context, msg Message) int
}

// ReaderPort is consumed by the publisher handlers
type ReaderPort interface {
	Fresh(ctx context.Context) FreshPayload
	Status(ctx context.Context) StatusPayload
}

// DebugPort runs text through normalize and extract synchronously
type DebugPort interface {
	Extract(ctx context.Context, text string) ExtractResult
}

// ReactorPort acknowledges a consumed message at the source. Best-effort:
// failure here must never affect core correctness
type ReactorPort interface {
	React(ctx context.Context, messageID string) error
}
