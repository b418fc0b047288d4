// Package login implements the HTTP handler for password authentication.
//
// The handler decodes and validates the credentials, delegates the login
// to the session manager and, on success, sets the signed session cookie
// and returns the customer profile. The manager reports failure as a
// boolean, so the handler owns the user-facing message.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// Request are the login credentials.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service is the slice of the session manager the handler needs.
type Service interface {
	Login(ctx context.Context, email, password string) (string, bool)
	Current(ctx context.Context, sessionID string) (*models.Session, error)
}

// Handler handles POST /auth/login.
type Handler struct {
	log        *slog.Logger
	service    Service
	maker      jwt.Maker
	cookieName string
	cookieTTL  time.Duration
	validate   *validator.Validate
}

// New creates the login handler.
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
// @Summary Log in with email and password
// @Description Authenticates against the backend, establishes a session and sets the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Credentials"
// @Success 200 {object} map[string]any "Customer profile"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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

	sessionID, ok := h.service.Login(r.Context(), req.Email, req.Password)
	if !ok {
		log.Info("login rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	sess, err := h.service.Current(r.Context(), sessionID)
	if err != nil || sess == nil {
		log.Error("session vanished right after login")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not establish session"))
		return
	}

	if err := middlewarectx.SetSessionCookie(w, h.maker, h.cookieName, sessionID, h.cookieTTL); err != nil {
		log.Error("failed to sign session cookie", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not establish session"))
		return
	}

	log.Info("login success", slog.String("customer", sess.Customer.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"customer": sess.Customer,
	}))
}
