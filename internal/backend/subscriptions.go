package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
	"github.com/nguyenbachduyhoang/cafedaily/internal/normalize"
)

// OrderSubscription places an order for planID on behalf of the
// authenticated customer. The response carries the created subscription
// record plus the bank-transfer instructions.
func (c *Client) OrderSubscription(ctx context.Context, token string, planID int) (*models.Order, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/subscriptions", token, map[string]int{
		"planId": planID,
	})
	if err != nil {
		return nil, err
	}
	body, err := c.call(req, "/subscriptions")
	if err != nil {
		return nil, err
	}

	var r normalize.Raw
	if err := decodeJSON(body, &r); err != nil {
		return nil, err
	}
	order := &models.Order{
		Instructions: mapInstructions(r),
		Message:      normalize.String(r, "message"),
	}
	if data, ok := r["data"].(map[string]any); ok {
		order.Subscription = mapSubscription(normalize.Raw(data))
	}
	return order, nil
}

// PaymentInfo refetches the transfer instructions for a pending order.
func (c *Client) PaymentInfo(ctx context.Context, token, subscriptionID string) (*models.PaymentInstructions, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	path := "/subscriptions/" + url.PathEscape(subscriptionID) + "/payment-info"
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.call(req, "/subscriptions/{id}/payment-info")
	if err != nil {
		return nil, err
	}
	var r normalize.Raw
	if err := decodeJSON(body, &r); err != nil {
		return nil, err
	}
	info := mapInstructions(r)
	return &info, nil
}

// MySubscriptions lists the authenticated customer's subscriptions.
func (c *Client) MySubscriptions(ctx context.Context, token string) ([]models.Subscription, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/subscriptions/my-subscriptions", token, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.call(req, "/subscriptions/my-subscriptions")
	if err != nil {
		return nil, err
	}
	raws := normalize.List(body)
	subs := make([]models.Subscription, 0, len(raws))
	for _, r := range raws {
		subs = append(subs, mapSubscription(r))
	}
	return subs, nil
}

// CancelSubscription asks the backend to cancel a pending subscription.
func (c *Client) CancelSubscription(ctx context.Context, token, subscriptionID string) error {
	if token == "" {
		return ErrNoToken
	}
	path := "/subscriptions/" + url.PathEscape(subscriptionID)
	req, err := c.newRequest(ctx, http.MethodDelete, path, token, nil)
	if err != nil {
		return err
	}
	_, err = c.call(req, "/subscriptions/{id}")
	return err
}

func mapSubscription(r normalize.Raw) models.Subscription {
	a := normalize.SubscriptionAliases
	return models.Subscription{
		SubscriptionID: normalize.String(r, a["id"]...),
		PlanID:         normalize.Int(r, a["planId"]...),
		PlanName:       normalize.String(r, a["planName"]...),
		Status:         normalize.String(r, a["status"]...),
		StartDate:      normalize.String(r, a["startDate"]...),
		EndDate:        normalize.String(r, a["endDate"]...),
		Price:          normalize.Number(r, a["price"]...),
		RemainingDays:  normalize.IntPtr(r, a["remainingDays"]...),
		ProductName:    normalize.String(r, a["productName"]...),
		ImageURL:       normalize.EnsureHTTPS(normalize.String(r, a["imageUrl"]...)),
	}
}

func mapInstructions(r normalize.Raw) models.PaymentInstructions {
	return models.PaymentInstructions{
		QRUrl:           normalize.String(r, "qrUrl"),
		BankName:        normalize.String(r, "bankName"),
		BankAccount:     normalize.String(r, "bankAccount"),
		AccountHolder:   normalize.String(r, "accountHolder"),
		TransferContent: normalize.String(r, "transferContent"),
		Amount:          normalize.Number(r, "amount"),
	}
}

// TransferURI renders the instructions as the string encoded into a local
// QR image when the backend-hosted one is unreachable.
func TransferURI(in models.PaymentInstructions) string {
	return fmt.Sprintf("bank://%s/%s?holder=%s&amount=%.0f&content=%s",
		url.PathEscape(in.BankName), url.PathEscape(in.BankAccount),
		url.QueryEscape(in.AccountHolder), in.Amount, url.QueryEscape(in.TransferContent))
}
