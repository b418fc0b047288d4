// Package backend is the HTTP gateway to the remote backend that owns all
// durable state: accounts, the plan catalog, subscriptions, payments and
// notifications. Every call normalizes the loosely-typed response shape
// and maps transport failures onto the error taxonomy in errors.go.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nguyenbachduyhoang/cafedaily/internal/config"
)

// Client talks to the remote backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	retryMax   int
	retryDelay func(ctx context.Context) bool

	// online reports whether the backend should be considered reachable.
	// The catalog retry loop stops early when it returns false.
	online func(ctx context.Context) bool
}

// New creates a backend client from configuration.
func New(cfg config.Backend, log *slog.Logger) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
		retryMax:   cfg.RetryMax,
	}
	c.retryDelay = func(ctx context.Context) bool {
		return sleep(ctx, cfg.RetryDelay)
	}
	c.online = func(context.Context) bool { return true }
	return c
}

// newRequest builds a JSON request, attaching the bearer token when one is
// given.
func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and returns the raw status and body. Transport
// failures come back as connectivity errors; HTTP error statuses are left
// to the caller so tolerant endpoints can apply their own policy.
// op is the path template used as the metrics label, ids stripped.
func (c *Client) do(req *http.Request, op string) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		backendRequests.WithLabelValues(op, "error").Inc()
		return 0, nil, connectivityError(err)
	}
	defer resp.Body.Close()

	backendRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, connectivityError(err)
	}
	return resp.StatusCode, body, nil
}

// call executes the request and converts any non-2xx status into a typed
// gateway error.
func (c *Client) call(req *http.Request, op string) ([]byte, error) {
	status, body, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, errorFromStatus(status, req.URL.Path, body)
	}
	return body, nil
}

// sleep waits d respecting cancellation; false means the context fired.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
