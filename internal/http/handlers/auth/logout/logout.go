// Package logout implements the HTTP handler that ends the session.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
)

// Service is the slice of the session manager the handler needs.
type Service interface {
	Logout(ctx context.Context, sessionID string)
}

// Handler handles POST /auth/logout.
type Handler struct {
	log        *slog.Logger
	service    Service
	cookieName string
}

// New creates the logout handler.
func New(log *slog.Logger, service Service, cookieName string) *Handler {
	return &Handler{log: log, service: service, cookieName: cookieName}
}

// ServeHTTP godoc
// @Summary Log out
// @Description Deletes the server-side session and expires the cookie; identity and token disappear together.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Logged out"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if id := middlewarectx.SessionIDFrom(r.Context()); id != "" {
		h.service.Logout(r.Context(), id)
		log.Info("session ended")
	}
	middlewarectx.ClearSessionCookie(w, h.cookieName)
	render.JSON(w, r, response.OK())
}
