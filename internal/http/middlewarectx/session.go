// Package middlewarectx contains the HTTP middleware of the service:
// session-cookie resolution and rate limiting.
//
// SessionMiddleware verifies the signed session cookie (or Authorization
// header), loads the session from the store and puts it into the request
// context. Handlers behind RequireSession answer 401 when no session is
// present, without ever dispatching a backend call.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/nguyenbachduyhoang/cafedaily/internal/http/response"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/sl"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

type ctxKey string

const (
	// SessionKey holds the *models.Session of the request.
	SessionKey ctxKey = "session"
	// SessionIDKey holds the session id of the request.
	SessionIDKey ctxKey = "session_id"
)

// SessionLoader loads a session by id, nil when it does not exist.
type SessionLoader interface {
	Current(ctx context.Context, sessionID string) (*models.Session, error)
}

// cookieValue extracts the signed cookie value from the Authorization
// header or the session cookie.
func cookieValue(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// SessionMiddleware resolves the session for the request when a valid
// cookie is present. Absence of a session is not an error here; the
// handlers decide whether they need one.
func SessionMiddleware(maker jwt.Maker, loader SessionLoader, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := cookieValue(r, cookieName)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := maker.ParseToken(raw)
			if err != nil {
				log.Debug("invalid session cookie", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			sess, err := loader.Current(r.Context(), claims.SessionID)
			if err != nil {
				log.Warn("failed to load session", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that carry no resolved session.
func RequireSession(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFrom(r.Context()) == nil {
				log.Info("request without session rejected", slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFrom returns the session of the request, nil when anonymous.
func SessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(SessionKey).(*models.Session)
	return sess
}

// SessionIDFrom returns the session id of the request, empty when
// anonymous.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// TokenFrom returns the backend bearer token of the request, empty when
// anonymous.
func TokenFrom(ctx context.Context) string {
	if sess := SessionFrom(ctx); sess != nil {
		return sess.Token
	}
	return ""
}
