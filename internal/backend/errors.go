package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind categorizes a failed backend call so callers can decide between
// re-login, retry and giving up.
type Kind int

const (
	// KindUnknown is the fallback for anything unclassified.
	KindUnknown Kind = iota
	// KindAuthRequired means the caller must force a re-login.
	KindAuthRequired
	// KindForbidden means the caller must not retry.
	KindForbidden
	// KindNotFound means the endpoint or resource is missing, a
	// configuration issue surfaced verbatim.
	KindNotFound
	// KindServer means the backend failed, retrying later may help.
	KindServer
	// KindConnectivity means timeout or unreachable backend.
	KindConnectivity
	// KindValidation means the submission was malformed.
	KindValidation
)

// Error is the typed error every gateway call returns, carrying the
// category and a user-readable message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrNoToken is returned locally, without dispatching a request, when an
// authenticated call is attempted with no bearer token present.
var ErrNoToken = &Error{Kind: KindAuthRequired, Message: "authentication token not found, please login first"}

// KindOf extracts the category from err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// errorBody is the loose error payload the backend may attach.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Error != "":
		return b.Error
	default:
		return b.Details
	}
}

// errorFromStatus maps an HTTP failure to the gateway error taxonomy,
// passing the backend's own message through when it sent one.
func errorFromStatus(status int, path string, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.text()

	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindAuthRequired, Status: status, Message: "unauthorized, please login again"}
	case status == http.StatusForbidden:
		return &Error{Kind: KindForbidden, Status: status, Message: "access forbidden, customer role required"}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: fmt.Sprintf("endpoint %s not found, check the server configuration", path)}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "invalid request data"
		}
		return &Error{Kind: KindValidation, Status: status, Message: msg}
	case status >= http.StatusInternalServerError:
		return &Error{Kind: KindServer, Status: status, Message: "server error, please try again later"}
	default:
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d from backend", status)
		}
		return &Error{Kind: KindUnknown, Status: status, Message: msg}
	}
}

// connectivityError classifies a transport failure. Timeouts and
// cancellations are connectivity faults the caller may retry when online.
func connectivityError(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindConnectivity, Message: "request timed out, please check your connection"}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindConnectivity, Message: "request timed out, please check your connection"}
	}
	return &Error{Kind: KindConnectivity, Message: "backend is unreachable, please check your network"}
}
