// Package api provides the HTTP API for the application
package api

import (
	stdhttp "net/http"

	"joinfeed/internal/platform/config"
	"joinfeed/internal/platform/logger"
	phttp "joinfeed/internal/platform/net/http"

	"joinfeed/internal/modkit"
	"joinfeed/internal/modkit/httpkit"
	"joinfeed/internal/modkit/module"
	"joinfeed/internal/modkit/swaggerkit"

	freshapi "joinfeed/internal/services/api/fresh/module"
	metamod "joinfeed/internal/services/api/meta/module"
	freshmod "joinfeed/internal/services/fresh/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	Fresh          freshmod.Ports
	EnableSwagger  bool
	EnableProfiler bool
}

// endpoints listed in the 404 body, in route order
var endpoints = []string{
	"/fresh",
	"/status",
	"/health",
	"/debug/extract",
	"/meta/ready",
	"/meta/version",
	"/meta/service",
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{
			Reader: opt.Fresh.Reader,
		})),
		freshapi.New(deps, modkit.WithPorts(freshapi.Ports{
			Reader: opt.Fresh.Reader,
			Debug:  opt.Fresh.Debug,
		})),
	}

	// common middleware stack, then the operational surfaces. The feed
	// contract is flat, so modules mount on the root router directly
	r.Use(httpkit.CommonStack()...)

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/internal/debug", opt.EnableProfiler)

	for _, m := range mods {
		// register each module's ports under its own name (for cross-module lookups)
		module.Register(m.Name(), m.Ports())

		m.MountRoutes(r)
	}

	// unmatched routes answer with the endpoint catalog
	r.NotFound(phttp.Handle(func(_ *stdhttp.Request) phttp.Response {
		return phttp.Raw(stdhttp.StatusNotFound, map[string]any{
			"error":     "not found",
			"endpoints": endpoints,
		})
	}))
}
