// @title         Joinfeed API
// @version       0.1.0
// @description   Fresh server-join identifiers polled from a relay channel

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"joinfeed/internal/adapters/ingest/discord"
	"joinfeed/internal/adapters/ingest/gateway"
	"joinfeed/internal/core/extract"
	"joinfeed/internal/core/patterns"
	"joinfeed/internal/modkit"
	"joinfeed/internal/platform/config"
	"joinfeed/internal/platform/logger"
	phttp "joinfeed/internal/platform/net/http"

	"joinfeed/internal/services/api"
	freshmod "joinfeed/internal/services/fresh/module"
	"joinfeed/internal/services/fresh/upstream"
)

func main() {
	// local development convenience; absent .env is fine
	_ = godotenv.Load()

	root := config.New()

	// service-scoped config for HTTP etc (CORE_API_*)
	apiCfg := root.Prefix("CORE_API_")

	// upstream credentials live under SERVICE_DISCORD_*
	dCfg := root.Prefix("SERVICE_DISCORD_")
	ingestCfg := root.Prefix("INGEST_")

	// bring up logging early
	l := logger.Get()

	// missing credentials are a startup error, not a per-request one
	dCfg.Require("TOKEN", "CHANNEL_ID")
	token := dCfg.MustString("TOKEN")
	channelID := dCfg.MustString("CHANNEL_ID")

	pack, err := patterns.Load()
	if err != nil {
		l.Panic().Err(err).Msg("patterns.Load failed")
	}
	ex := extract.New(pack)

	client := discord.NewClient(discord.Options{
		BaseURL:    dCfg.MayString("BASE_URL", ""),
		Token:      token,
		Timeout:    ingestCfg.MayDuration("TIMEOUT", 0),
		MaxRetries: ingestCfg.MayInt("RETRIES", 0),
		RetryBase:  ingestCfg.MayDuration("RETRY_BASE", 0),
	})
	up := upstream.NewDiscord(client, channelID, dCfg.MayString("REACT_EMOJI", "✅"))

	deps := modkit.Deps{Cfg: root, Log: *l}
	fresh := freshmod.New(deps, freshmod.Deps{
		Fetcher:   up,
		Extractor: ex,
		Reactor:   up,
	}, freshmod.Options{})
	ports := fresh.Ports().(freshmod.Ports)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// background prewarm and eviction sweep
	go ports.Runner.Run(ctx)

	// optional push-mode ingestion alongside polling
	if dCfg.MayBool("GATEWAY", false) {
		lst, err := gateway.New(gateway.Options{Token: token, ChannelID: channelID},
			func(ctx context.Context, m discord.Message) {
				ports.Ingest.Ingest(ctx, upstream.MapMessage(m))
			})
		if err != nil {
			l.Panic().Err(err).Msg("gateway.New failed")
		}
		go func() {
			if err := lst.Run(ctx); err != nil {
				l.Error().Err(err).Msg("gateway stopped")
			}
		}()
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Logger:         l,
			Fresh:          ports,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
