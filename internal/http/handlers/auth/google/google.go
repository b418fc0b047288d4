// Package google implements the HTTP handler for the federated login
// path: the browser obtains an identity token from the provider popup and
// posts it here to be exchanged for a backend session.
package google

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

// Request carries the provider identity token.
type Request struct {
	IDToken string `json:"idToken" validate:"required"`
}

// Service is the slice of the session manager the handler needs.
type Service interface {
	LoginWithGoogle(ctx context.Context, idToken string) (string, bool)
	Current(ctx context.Context, sessionID string) (*models.Session, error)
}

// Handler handles POST /auth/google.
type Handler struct {
	log        *slog.Logger
	service    Service
	maker      jwt.Maker
	cookieName string
	cookieTTL  time.Duration
	validate   *validator.Validate
}

// New creates the federated-login handler.
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
// @Summary Log in with a Google identity token
// @Description Exchanges the provider token for a backend session. Fails closed: no partial session state is ever left behind.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Provider identity token"
// @Success 200 {object} map[string]any "Customer profile"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 401 {object} response.ErrorResponse "Exchange rejected"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /auth/google [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.google"
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

	sessionID, ok := h.service.LoginWithGoogle(r.Context(), req.IDToken)
	if !ok {
		log.Info("google login rejected")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("google sign-in failed"))
		return
	}

	sess, err := h.service.Current(r.Context(), sessionID)
	if err != nil || sess == nil {
		log.Error("session vanished right after google login")
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

	log.Info("google login success", slog.String("customer", sess.Customer.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"customer": sess.Customer,
	}))
}
