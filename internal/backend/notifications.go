package backend

import (
	"context"
	"net/http"

	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
	"github.com/nguyenbachduyhoang/cafedaily/internal/normalize"
)

// MyNotifications fetches the authenticated customer's notification
// stream. The stream is read-only; read/unread transitions belong to the
// backend.
func (c *Client) MyNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/notifications", token, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.call(req, "/notifications")
	if err != nil {
		return nil, err
	}
	raws := normalize.List(body)
	items := make([]models.Notification, 0, len(raws))
	for _, r := range raws {
		items = append(items, mapNotification(r))
	}
	return items, nil
}

func mapNotification(r normalize.Raw) models.Notification {
	a := normalize.NotificationAliases
	return models.Notification{
		ID:        normalize.String(r, a["id"]...),
		Title:     normalize.String(r, a["title"]...),
		Message:   normalize.String(r, a["message"]...),
		Type:      normalize.String(r, a["type"]...),
		IsRead:    normalize.BoolPtr(r, a["isRead"]...),
		CreatedAt: normalize.Time(r, a["createdAt"]...),
		Link:      normalize.String(r, a["link"]...),
	}
}
