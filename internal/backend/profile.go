package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
	"github.com/nguyenbachduyhoang/cafedaily/internal/normalize"
)

// UpdateProfileRequest carries the partial profile fields to merge.
// Nil fields are left untouched by the backend.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
}

// MyProfile fetches the authenticated customer's profile.
func (c *Client) MyProfile(ctx context.Context, token string) (*models.Customer, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/customers/my-profile", token, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.call(req, "/customers/my-profile")
	if err != nil {
		return nil, err
	}
	r := normalize.Object(body)
	if r == nil {
		return nil, &Error{Kind: KindUnknown, Message: "profile response was not an object"}
	}
	cust := mapCustomer(r)
	return &cust, nil
}

// UpdateProfile pushes a partial profile update to the backend.
func (c *Client) UpdateProfile(ctx context.Context, token string, upd UpdateProfileRequest) error {
	if token == "" {
		return ErrNoToken
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/customers/my-profile", token, upd)
	if err != nil {
		return err
	}
	_, err = c.call(req, "/customers/my-profile")
	return err
}

func mapCustomer(r normalize.Raw) models.Customer {
	a := normalize.CustomerAliases
	return models.Customer{
		ID:      normalize.String(r, a["id"]...),
		Name:    normalize.String(r, a["name"]...),
		Email:   normalize.String(r, a["email"]...),
		Phone:   normalize.String(r, a["phone"]...),
		Address: normalize.String(r, a["address"]...),
		Avatar:  normalize.String(r, a["avatar"]...),
	}
}

// decodeJSON is a small helper for endpoints with a stable shape.
func decodeJSON(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return &Error{Kind: KindUnknown, Message: "malformed response from backend"}
	}
	return nil
}
