// Package subscription serves the customer's subscription list and the
// payment helpers attached to a single subscription.
package subscription

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/nguyenbachduyhoang/cafedaily/internal/backend"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// RepayRequest optionally names the plan to re-order when the original
// payment window is gone.
type RepayRequest struct {
	PlanID int `json:"planId,omitempty"`
}

// Gateway is the slice of the backend client the handlers need.
type Gateway interface {
	MySubscriptions(ctx context.Context, token string) ([]models.Subscription, error)
	CancelSubscription(ctx context.Context, token, subscriptionID string) error
	PaymentInfo(ctx context.Context, token, subscriptionID string) (*models.PaymentInstructions, error)
}

// Repayer recovers payment instructions for a pending subscription.
type Repayer interface {
	Repay(ctx context.Context, token, subscriptionID string, planID int) (*models.PaymentInstructions, error)
}

// ListHandler handles GET /subscriptions.
type ListHandler struct {
	log     *slog.Logger
	gateway Gateway
}

// NewList creates the subscription list handler.
func NewList(log *slog.Logger, gateway Gateway) *ListHandler {
	return &ListHandler{log: log, gateway: gateway}
}

// ServeHTTP godoc
// @Summary List the customer's subscriptions
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response "Subscriptions"
// @Failure 401 {object} response.ErrorResponse "Not signed in"
// @Router /subscriptions [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subs, err := h.gateway.MySubscriptions(r.Context(), middlewarectx.TokenFrom(r.Context()))
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not load subscriptions"))
		return
	}
	render.JSON(w, r, response.OKWithData(subs))
}

// RemoveHandler handles DELETE /subscriptions/{id}.
type RemoveHandler struct {
	log     *slog.Logger
	gateway Gateway
}

// NewRemove creates the subscription cancel handler.
func NewRemove(log *slog.Logger, gateway Gateway) *RemoveHandler {
	return &RemoveHandler{log: log, gateway: gateway}
}

// ServeHTTP godoc
// @Summary Cancel a subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Unknown subscription"
// @Router /subscriptions/{id} [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.gateway.CancelSubscription(r.Context(), middlewarectx.TokenFrom(r.Context()), id); err != nil {
		log.Error("failed to cancel subscription", sl.Err(err), slog.String("subscription_id", id))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not cancel the subscription"))
		return
	}

	log.Info("subscription cancelled", slog.String("subscription_id", id))
	render.JSON(w, r, response.OK())
}

// PaymentInfoHandler handles GET /subscriptions/{id}/payment-info.
type PaymentInfoHandler struct {
	log     *slog.Logger
	gateway Gateway
}

// NewPaymentInfo creates the payment info handler.
func NewPaymentInfo(log *slog.Logger, gateway Gateway) *PaymentInfoHandler {
	return &PaymentInfoHandler{log: log, gateway: gateway}
}

// ServeHTTP godoc
// @Summary Get transfer instructions for a pending subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription id"
// @Success 200 {object} response.Response "Payment instructions"
// @Failure 404 {object} response.ErrorResponse "No instructions available"
// @Router /subscriptions/{id}/payment-info [get]
func (h *PaymentInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.paymentinfo"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	info, err := h.gateway.PaymentInfo(r.Context(), middlewarectx.TokenFrom(r.Context()), id)
	if err != nil {
		log.Error("failed to fetch payment info", sl.Err(err), slog.String("subscription_id", id))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not load payment instructions"))
		return
	}
	render.JSON(w, r, response.OKWithData(info))
}

// RepayHandler handles POST /subscriptions/{id}/repay.
type RepayHandler struct {
	log     *slog.Logger
	repayer Repayer
}

// NewRepay creates the repay handler.
func NewRepay(log *slog.Logger, repayer Repayer) *RepayHandler {
	return &RepayHandler{log: log, repayer: repayer}
}

// ServeHTTP godoc
// @Summary Recover payment instructions for a pending subscription
// @Description Asks the backend for stored instructions first; when they
// are gone and a planId is supplied, re-orders the plan instead.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription id"
// @Param request body RepayRequest false "Fallback plan to re-order"
// @Success 200 {object} response.Response "Payment instructions"
// @Failure 404 {object} response.ErrorResponse "No instructions recoverable"
// @Router /subscriptions/{id}/repay [post]
func (h *RepayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.repay"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req RepayRequest
	// The body is optional, a missing or empty one means no fallback plan.
	_ = json.NewDecoder(r.Body).Decode(&req)

	id := chi.URLParam(r, "id")
	info, err := h.repayer.Repay(r.Context(), middlewarectx.TokenFrom(r.Context()), id, req.PlanID)
	if err != nil {
		log.Error("failed to recover payment instructions", sl.Err(err), slog.String("subscription_id", id))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not recover payment instructions"))
		return
	}
	render.JSON(w, r, response.OKWithData(info))
}

// QRHandler handles GET /subscriptions/{id}/qr. It renders the transfer
// instructions as a QR PNG when the backend did not supply an image URL.
type QRHandler struct {
	log     *slog.Logger
	gateway Gateway
}

// NewQR creates the QR handler.
func NewQR(log *slog.Logger, gateway Gateway) *QRHandler {
	return &QRHandler{log: log, gateway: gateway}
}

// ServeHTTP godoc
// @Summary Render the bank transfer QR code
// @Tags Subscriptions
// @Produce png
// @Param id path string true "Subscription id"
// @Success 200 {file} file "QR PNG"
// @Failure 404 {object} response.ErrorResponse "No instructions available"
// @Router /subscriptions/{id}/qr [get]
func (h *QRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.qr"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	info, err := h.gateway.PaymentInfo(r.Context(), middlewarectx.TokenFrom(r.Context()), id)
	if err != nil {
		log.Error("failed to fetch payment info", sl.Err(err), slog.String("subscription_id", id))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not load payment instructions"))
		return
	}

	// Prefer the backend-hosted image when present.
	if info.QRUrl != "" {
		http.Redirect(w, r, info.QRUrl, http.StatusFound)
		return
	}

	png, err := qrcode.Encode(backend.TransferURI(*info), qrcode.Medium, 256)
	if err != nil {
		log.Error("failed to encode qr", sl.Err(err), slog.String("subscription_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not render the qr code"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
