// Package order exposes the purchase flow: placing an order, polling
// its state and closing the payment window.
package order

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/services/order"
)

// CreateRequest places an order for a plan.
type CreateRequest struct {
	PlanID int    `json:"planId" validate:"required,gt=0"`
	Method string `json:"method" validate:"required,oneof=transfer card"`
}

// Service is the slice of the flow service the handlers need.
type Service interface {
	Place(ctx context.Context, token string, planID int, method string) (order.Snapshot, error)
	Status(id string) (order.Snapshot, bool)
	Close(id string)
}

// CreateHandler handles POST /orders.
type CreateHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewCreate creates the order placement handler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Place a subscription order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Plan and payment method"
// @Success 200 {object} response.Response "Flow snapshot"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or no plan selected"
// @Failure 401 {object} response.ErrorResponse "Not signed in"
// @Router /orders [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	snap, err := h.service.Place(r.Context(), middlewarectx.TokenFrom(r.Context()), req.PlanID, req.Method)
	if err != nil {
		log.Error("failed to place order", sl.Err(err), slog.Int("plan_id", req.PlanID))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not place the order, please try again"))
		return
	}

	log.Info("order placed",
		slog.String("order_id", snap.ID),
		slog.String("state", string(snap.State)),
	)
	render.JSON(w, r, response.OKWithData(snap))
}

// StatusHandler handles GET /orders/{id}.
type StatusHandler struct {
	log     *slog.Logger
	service Service
}

// NewStatus creates the order status handler.
func NewStatus(log *slog.Logger, service Service) *StatusHandler {
	return &StatusHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Get the state of a purchase flow
// @Tags Orders
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} response.Response "Flow snapshot"
// @Failure 404 {object} response.ErrorResponse "Unknown or closed flow"
// @Router /orders/{id} [get]
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	snap, ok := h.service.Status(id)
	if !ok {
		log.Info("unknown order", slog.String("order_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("order not found"))
		return
	}
	render.JSON(w, r, response.OKWithData(snap))
}

// CloseHandler handles POST /orders/{id}/close.
type CloseHandler struct {
	log     *slog.Logger
	service Service
}

// NewClose creates the order close handler.
func NewClose(log *slog.Logger, service Service) *CloseHandler {
	return &CloseHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Close a purchase flow
// @Description Stops polling and discards the payment instructions.
// Closing an unknown flow is a no-op.
// @Tags Orders
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} response.Response
// @Router /orders/{id}/close [post]
func (h *CloseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.close"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	h.service.Close(id)
	log.Info("order closed", slog.String("order_id", id))
	render.JSON(w, r, response.OK())
}
