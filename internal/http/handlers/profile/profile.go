// Package profile serves the authenticated customer's profile.
package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nguyenbachduyhoang/cafedaily/internal/backend"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// UpdateRequest carries the editable profile fields. Absent fields are
// left untouched.
type UpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
}

// Service is the slice of the session manager the handlers need.
type Service interface {
	Current(ctx context.Context, sessionID string) (*models.Session, error)
	UpdateProfile(ctx context.Context, sessionID string, upd backend.UpdateProfileRequest) bool
}

// GetHandler handles GET /profile.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet creates the profile read handler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Get the current customer's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response "Customer profile"
// @Failure 401 {object} response.ErrorResponse "Not signed in"
// @Router /profile [get]
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, err := h.service.Current(r.Context(), middlewarectx.SessionIDFrom(r.Context()))
	if err != nil || sess == nil {
		log.Info("session lookup failed", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized, please login again"))
		return
	}
	render.JSON(w, r, response.OKWithData(sess.Customer))
}

// UpdateHandler handles POST /profile. All fields are optional partial
// updates, so there is nothing to validate beyond the JSON shape.
type UpdateHandler struct {
	log     *slog.Logger
	service Service
}

// NewUpdate creates the profile update handler.
func NewUpdate(log *slog.Logger, service Service) *UpdateHandler {
	return &UpdateHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Update the current customer's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body UpdateRequest true "Fields to change"
// @Success 200 {object} response.Response "Updated customer profile"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 401 {object} response.ErrorResponse "Not signed in"
// @Router /profile [post]
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	sessionID := middlewarectx.SessionIDFrom(r.Context())
	// The update is applied to the session mirror immediately; a backend
	// rejection is logged by the manager without rolling the mirror back.
	h.service.UpdateProfile(r.Context(), sessionID, backend.UpdateProfileRequest{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Avatar:  req.Avatar,
	})

	sess, err := h.service.Current(r.Context(), sessionID)
	if err != nil || sess == nil {
		log.Info("session lookup failed after update", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized, please login again"))
		return
	}
	render.JSON(w, r, response.OKWithData(sess.Customer))
}
