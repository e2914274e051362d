// Package module wires the feed endpoints into the API using modkit
package module

import (
	"net/http"

	modkit "joinfeed/internal/modkit"
	"joinfeed/internal/modkit/httpkit"
	str "joinfeed/internal/platform/strings"
	freshhttp "joinfeed/internal/services/api/fresh/http"
	"joinfeed/internal/services/fresh/domain"
)

// Ports are the cross-module ports this module consumes
type Ports struct {
	Reader domain.ReaderPort
	Debug  domain.DebugPort
}

// Module implements the feed publisher module
type Module struct {
	deps  modkit.Deps
	name  string
	mws   []func(http.Handler) http.Handler
	ports Ports

	register func(httpkit.Router)
}

// New constructs the publisher module; the fresh worker's ports are
// injected via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("fresh-api")}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Reader == nil || ports.Debug == nil {
		panic("fresh-api module requires Reader and Debug ports")
	}

	m := &Module{
		deps:  deps,
		name:  b.Name,
		mws:   b.Mw,
		ports: ports,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		freshhttp.Register(r, freshhttp.Ports{Reader: ports.Reader, Debug: ports.Debug})
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes registers the flat consumer routes directly on the parent
// router; there is no module prefix because the wire contract is flat
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Group(func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
