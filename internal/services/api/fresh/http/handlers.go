// Package http provides the consumer-facing feed endpoints
package http

import (
	stdhttp "net/http"

	"joinfeed/internal/modkit/httpkit"
	"joinfeed/internal/platform/net/http/bind"
	"joinfeed/internal/services/fresh/domain"
)

// Ports are the handler dependencies
type Ports struct {
	Reader domain.ReaderPort
	Debug  domain.DebugPort
}

type handlers struct{ ports Ports }

// Register mounts the feed endpoints. Paths are flat at the router root:
// the wire contract predates this service and polling clients hardcode it
func Register(r httpkit.Router, p Ports) {
	h := &handlers{ports: p}

	httpkit.Get(r, "/fresh", h.fresh)
	httpkit.Get(r, "/status", h.status)
	httpkit.Post(r, "/debug/extract", h.extract)
}

// swagger:route GET /fresh Fresh freshList
// @Summary Currently fresh identifiers, most recent first
// @Tags Fresh
// @Produce json
// @Success 200 {object} domain.FreshPayload "ok"
// @Router /fresh [get]
func (h *handlers) fresh(r *stdhttp.Request) (any, error) {
	p := h.ports.Reader.Fresh(r.Context())
	return httpkit.RawWithHeader(stdhttp.StatusOK, p, "Cache-Control", "no-cache, no-store, must-revalidate"), nil
}

// swagger:route GET /status Fresh freshStatus
// @Summary Pipeline diagnostic counters
// @Tags Fresh
// @Produce json
// @Success 200 {object} domain.StatusPayload "ok"
// @Router /status [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return httpkit.Raw(stdhttp.StatusOK, h.ports.Reader.Status(r.Context())), nil
}

// swagger:route POST /debug/extract Fresh freshExtract
// @Summary Run text through normalize and extract
// @Tags Fresh
// @Accept json
// @Produce json
// @Param payload body domain.ExtractInput true "Text to scan"
// @Success 200 {object} domain.ExtractResult "ok"
// @Router /debug/extract [post]
func (h *handlers) extract(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[domain.ExtractInput](r)
	if err != nil {
		return nil, err
	}
	return httpkit.Raw(stdhttp.StatusOK, h.ports.Debug.Extract(r.Context(), in.Text)), nil
}
