// Package list serves the filtered, day-grouped notification feed.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/middlewarectx"
	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
	"github.com/nguyenbachduyhoang/cafedaily/internal/services/notification"
)

// Gateway fetches the raw notification stream from the backend.
type Gateway interface {
	MyNotifications(ctx context.Context, token string) ([]models.Notification, error)
}

// Feed is the response payload: the unread badge count plus the
// notifications grouped by calendar day, newest day first.
type Feed struct {
	Unread int                     `json:"unread"`
	Groups []notification.DayGroup `json:"groups"`
}

// Handler handles GET /notifications.
type Handler struct {
	log     *slog.Logger
	gateway Gateway
}

// New creates the notification feed handler.
func New(log *slog.Logger, gateway Gateway) *Handler {
	return &Handler{log: log, gateway: gateway}
}

// ServeHTTP godoc
// @Summary List notifications
// @Description Filter with ?filter=all|unread and ?q=<substring>. The
// unread count always reflects the full stream, not the filtered view.
// @Tags Notifications
// @Produce json
// @Param filter query string false "all or unread" default(all)
// @Param q query string false "Case-insensitive substring over title and message"
// @Success 200 {object} response.Response "Notification feed"
// @Failure 401 {object} response.ErrorResponse "Not signed in"
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.gateway.MyNotifications(r.Context(), middlewarectx.TokenFrom(r.Context()))
	if err != nil {
		log.Error("failed to list notifications", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not load notifications"))
		return
	}

	filter := notification.ParseFilter(r.URL.Query().Get("filter"))
	visible := notification.Apply(items, filter, r.URL.Query().Get("q"))

	render.JSON(w, r, response.OKWithData(Feed{
		Unread: notification.CountUnread(items),
		Groups: notification.GroupByDay(visible),
	}))
}
