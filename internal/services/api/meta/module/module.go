// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	modkit "joinfeed/internal/modkit"
	"joinfeed/internal/modkit/httpkit"
	str "joinfeed/internal/platform/strings"
	"joinfeed/internal/services/fresh/domain"

	metahttp "joinfeed/internal/services/api/meta/http"
)

// Ports are optional cross-module ports the meta module consumes
type Ports struct {
	Reader domain.ReaderPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	startedAt time.Time
	reader    domain.ReaderPort
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		startedAt: time.Now(),
	}
	if p, ok := b.Ports.(Ports); ok {
		m.reader = p.Reader
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, m.handlerDeps())
		if external != nil {
			external(r)
		}
	}

	return m
}

func (m *Module) handlerDeps() metahttp.Deps {
	return metahttp.Deps{
		ServiceName: "joinfeed-api",
		StartedAt:   m.startedAt,
		Reader:      m.reader,
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	// liveness stays flat; everything else nests under the prefix
	metahttp.RegisterHealth(r, m.handlerDeps())

	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
