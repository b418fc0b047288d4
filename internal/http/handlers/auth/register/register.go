// Package register implements the HTTP handler for account registration.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nguyenbachduyhoang/cafedaily/internal/backend"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
)

// Request are the new-account fields.
type Request struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address" validate:"required"`
}

// Service is the slice of the session manager the handler needs.
type Service interface {
	Register(ctx context.Context, reg backend.RegisterRequest) (string, bool)
}

// Handler handles POST /auth/register.
type Handler struct {
	log        *slog.Logger
	service    Service
	maker      jwt.Maker
	cookieName string
	cookieTTL  time.Duration
	validate   *validator.Validate
}

// New creates the register handler.
func New(log *slog.Logger, service Service, maker jwt.Maker, cookieName string, cookieTTL time.Duration) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		maker:      maker,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Register a new account
// @Description Submits the registration to the backend. When the backend issues a token right away the session cookie is set too.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "New account fields"
// @Success 200 {object} response.Response "Registered"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or rejected registration"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
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

	sessionID, ok := h.service.Register(r.Context(), backend.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Address:  req.Address,
	})
	if !ok {
		log.Info("registration rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("registration failed, please try again"))
		return
	}

	if sessionID != "" {
		if err := middlewarectx.SetSessionCookie(w, h.maker, h.cookieName, sessionID, h.cookieTTL); err != nil {
			log.Error("failed to sign session cookie", sl.Err(err))
		}
	}

	log.Info("registration accepted", slog.String("email", req.Email))
	render.JSON(w, r, response.OK())
}
