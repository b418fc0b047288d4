// Package list serves the subscription plan catalog.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// Service lists the plan catalog from the backend.
type Service interface {
	ListPlans(ctx context.Context) ([]models.Package, error)
}

// Handler handles GET /plans.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates the plan list handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List subscription plans
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Response "Plan catalog"
// @Failure 502 {object} response.ErrorResponse "Backend error"
// @Failure 503 {object} response.ErrorResponse "Backend unreachable"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not load the plan catalog"))
		return
	}
	render.JSON(w, r, response.OKWithData(plans))
}
