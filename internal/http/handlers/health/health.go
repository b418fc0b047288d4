// Package health exposes the liveness probe backed by the plan catalog
// endpoint of the upstream API.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
)

// Prober reports whether the upstream API answers.
type Prober interface {
	Health(ctx context.Context) bool
}

// Handler handles GET /healthz.
type Handler struct {
	log    *slog.Logger
	prober Prober
}

// New creates the health handler.
func New(log *slog.Logger, prober Prober) *Handler {
	return &Handler{log: log, prober: prober}
}

// ServeHTTP godoc
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse "Upstream unreachable"
// @Router /healthz [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.prober.Health(r.Context()) {
		h.log.Warn("upstream health probe failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("upstream unavailable"))
		return
	}
	render.JSON(w, r, response.OK())
}
