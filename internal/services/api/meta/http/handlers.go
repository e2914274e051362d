// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"joinfeed/internal/core/version"
	"joinfeed/internal/modkit/httpkit"
	"joinfeed/internal/services/fresh/domain"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// Reader is optional; when present /meta/ready reports upstream state
	Reader domain.ReaderPort
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes under the module prefix
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// RegisterHealth mounts the flat liveness probe. Raw shape, no envelope:
// polling clients check it before the feed and expect exactly this body
func RegisterHealth(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the liveness payload
// swagger:model
type HealthResponse struct {
	OK        bool  `json:"ok" example:"true"`
	Timestamp int64 `json:"timestamp" example:"1756400000000"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name" example:"upstream"`
	Status string `json:"status" example:"ok"` // ok degraded skipped
	Error  string `json:"error,omitempty" example:"discord rate limited"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now" example:"2026-08-29T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name" example:"joinfeed-api"`
	Started string `json:"started" example:"2026-08-29T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"`
}

// swagger:route GET /health Meta metaHealth
// @Summary Liveness probe, independent of upstream health
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return httpkit.Raw(http.StatusOK, HealthResponse{
		OK:        true,
		Timestamp: time.Now().UnixMilli(),
	}), nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with ingestion state
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	up := ReadyCheck{Name: "upstream", Status: "skipped"}
	if h.deps.Reader != nil {
		st := h.deps.Reader.Status(r.Context())
		up.Status = "ok"
		if st.LastError != nil && st.FetchSuccesses == 0 {
			up.Status = "degraded"
			up.Error = st.LastError.Message
		}
	}

	overall := "ok"
	if up.Status == "degraded" {
		overall = "degraded"
	}
	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{up},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}
