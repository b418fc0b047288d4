package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
	"github.com/nguyenbachduyhoang/cafedaily/internal/normalize"
)

// fallbackPlanImage is shown when the catalog entry carries no image.
const fallbackPlanImage = "https://images.pexels.com/photos/302899/pexels-photo-302899.jpeg?auto=compress&cs=tinysrgb&w=400"

// planPayload is the catalog entry shape. Unlike the other resources this
// endpoint is consistent across deployments.
type planPayload struct {
	PlanID       int     `json:"planId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ProductName  string  `json:"productName"`
	ImageURL     string  `json:"imageUrl"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"`
	DailyQuota   int     `json:"dailyQuota"`
	MaxPerVisit  int     `json:"maxPerVisit"`
	Active       bool    `json:"active"`
}

// ListPlans fetches the plan catalog, tolerating transient failures with a
// fixed-interval bounded retry. No backoff, no jitter: retryMax attempts
// spaced retryDelay apart, stopping early when the backend is considered
// offline or the context is cancelled.
func (c *Client) ListPlans(ctx context.Context) ([]models.Package, error) {
	const op = "backend.ListPlans"

	var lastErr error
	for attempt := 0; ; attempt++ {
		pkgs, err := c.fetchPlans(ctx)
		if err == nil {
			return pkgs, nil
		}
		lastErr = err
		if attempt >= c.retryMax {
			break
		}
		if !c.online(ctx) {
			c.log.Warn("backend considered offline, giving up on catalog", sl.Err(err))
			break
		}
		c.log.Warn("catalog fetch failed, retrying",
			sl.Err(err), "attempt", attempt+1, "max", c.retryMax)
		if !c.retryDelay(ctx) {
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

func (c *Client) fetchPlans(ctx context.Context) ([]models.Package, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/plans", "", nil)
	if err != nil {
		return nil, err
	}
	body, err := c.call(req, "/plans")
	if err != nil {
		return nil, err
	}
	var plans []planPayload
	if err := decodeJSON(body, &plans); err != nil {
		// Some deployments wrap the catalog in a data envelope.
		raws := normalize.List(body)
		if raws == nil {
			return nil, err
		}
		for _, r := range raws {
			plans = append(plans, planPayload{
				PlanID:       normalize.Int(r, "planId", "id"),
				Name:         normalize.String(r, "name"),
				Description:  normalize.String(r, "description"),
				ProductName:  normalize.String(r, "productName"),
				ImageURL:     normalize.String(r, "imageUrl"),
				Price:        normalize.Number(r, "price"),
				DurationDays: normalize.Int(r, "durationDays"),
				DailyQuota:   normalize.Int(r, "dailyQuota"),
				MaxPerVisit:  normalize.Int(r, "maxPerVisit"),
				Active:       normalize.BoolPtr(r, "active") != nil && *normalize.BoolPtr(r, "active"),
			})
		}
	}
	pkgs := make([]models.Package, 0, len(plans))
	for _, p := range plans {
		pkgs = append(pkgs, mapPlan(p))
	}
	return pkgs, nil
}

// Health probes the catalog endpoint to tell whether the backend is up.
func (c *Client) Health(ctx context.Context) bool {
	req, err := c.newRequest(ctx, http.MethodGet, "/plans", "", nil)
	if err != nil {
		return false
	}
	_, err = c.call(req, "/plans")
	return err == nil
}

// mapPlan derives the display package from a catalog entry. The feature
// list is built deterministically from the quota fields and is never
// empty; the price never goes negative.
func mapPlan(p planPayload) models.Package {
	price := p.Price
	if price < 0 {
		price = 0
	}
	status := "Plan currently suspended"
	if p.Active {
		status = "Plan currently active"
	}
	image := normalize.EnsureHTTPS(p.ImageURL)
	if image == "" {
		image = fallbackPlanImage
	}
	return models.Package{
		ID:          fmt.Sprintf("%d", p.PlanID),
		Name:        p.Name,
		Price:       price,
		Description: p.Description,
		Features: []string{
			fmt.Sprintf("%d cups per day for %d days", p.DailyQuota, p.DurationDays),
			fmt.Sprintf("Product: %s", p.ProductName),
			fmt.Sprintf("Up to %d cups per visit", p.MaxPerVisit),
			status,
		},
		Image:        image,
		Popular:      false,
		DurationDays: p.DurationDays,
	}
}
