package module

import (
	"time"

	"joinfeed/internal/platform/config"
)

// Options controls the fresh pipeline worker
type Options struct {
	Window     time.Duration
	MaxEntries int
	Mode       string
	FailCycles int
	BlockBound time.Duration

	Batch        int
	FetchTimeout time.Duration
	PollInterval time.Duration
	BotOnly      bool
}

// FromConfig reads with FRESH_ and INGEST_ prefixes
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("FRESH_")
	i := cfg.Prefix("INGEST_")
	return Options{
		Window:       f.MayDuration("WINDOW", 30*time.Second),
		MaxEntries:   f.MayInt("MAX_ENTRIES", 200),
		Mode:         f.MayEnum("MODE", "lazy", "lazy", "blocking"),
		FailCycles:   f.MayInt("FAIL_CYCLES", 3),
		BlockBound:   f.MayDuration("BLOCK_BOUND", 3*time.Second),
		Batch:        i.MayInt("BATCH", 25),
		FetchTimeout: i.MayDuration("TIMEOUT", 5*time.Second),
		PollInterval: i.MayDuration("POLL_INTERVAL", 10*time.Second),
		BotOnly:      i.MayBool("BOT_ONLY", true),
	}
}
