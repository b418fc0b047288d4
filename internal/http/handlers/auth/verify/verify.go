// Package verify implements the HTTP handler for account verification
// with the out-of-band code.
package verify

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

// Request carries the verification code.
type Request struct {
	Token string `json:"token" validate:"required"`
}

// Service is the slice of the session manager the handler needs.
type Service interface {
	VerifyAccount(ctx context.Context, code string) bool
}

// Handler handles POST /auth/verify.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates the verify handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Verify an account
// @Description Submits the emailed verification code to the backend.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Verification code"
// @Success 200 {object} response.Response "Verified"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or invalid code"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /auth/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if !h.service.VerifyAccount(r.Context(), req.Token) {
		log.Info("verification rejected")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("verification failed, please check the code"))
		return
	}

	log.Info("account verified")
	render.JSON(w, r, response.OK())
}
