// Package password implements the forgot-password and reset-password
// handlers.
package password

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
)

// ForgotRequest starts the reset flow.
type ForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetRequest completes the reset with the emailed code.
type ResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// Service is the slice of the session manager the handlers need.
type Service interface {
	ForgotPassword(ctx context.Context, email string) bool
	ResetPassword(ctx context.Context, email, code, newPassword string) bool
}

// ForgotHandler handles POST /auth/forgot-password.
type ForgotHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewForgot creates the forgot-password handler.
func NewForgot(log *slog.Logger, service Service) *ForgotHandler {
	return &ForgotHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Request a password reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ForgotRequest true "Account email"
// @Success 200 {object} response.Response "Reset email sent"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or rejected request"
// @Router /auth/forgot-password [post]
func (h *ForgotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password.forgot"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ForgotRequest
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

	if !h.service.ForgotPassword(r.Context(), req.Email) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not start password reset"))
		return
	}
	render.JSON(w, r, response.OK())
}

// ResetHandler handles POST /auth/reset-password.
type ResetHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewReset creates the reset-password handler.
func NewReset(log *slog.Logger, service Service) *ResetHandler {
	return &ResetHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Complete a password reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResetRequest true "Email, code and new password"
// @Success 200 {object} response.Response "Password changed"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or rejected reset"
// @Router /auth/reset-password [post]
func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password.reset"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req ResetRequest
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

	if !h.service.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not reset password"))
		return
	}
	render.JSON(w, r, response.OK())
}
