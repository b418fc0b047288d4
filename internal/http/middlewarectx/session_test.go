package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

type stubLoader struct {
	sessions map[string]*models.Session
}

func (l *stubLoader) Current(_ context.Context, sessionID string) (*models.Session, error) {
	return l.sessions[sessionID], nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const cookieName = "cafedaily_session"

func TestSessionMiddleware(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	loader := &stubLoader{sessions: map[string]*models.Session{
		"sid-1": {Token: "tok-1", Customer: models.Customer{ID: "1"}},
	}}

	signed, err := maker.GenerateToken("sid-1")
	require.NoError(t, err)

	tests := []struct {
		name        string
		prepare     func(r *http.Request)
		wantToken   string
		wantSession bool
	}{
		{
			name: "valid cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: signed})
			},
			wantToken:   "tok-1",
			wantSession: true,
		},
		{
			name: "authorization header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signed)
			},
			wantToken:   "tok-1",
			wantSession: true,
		},
		{
			name:    "no cookie stays anonymous",
			prepare: func(r *http.Request) {},
		},
		{
			name: "garbage cookie stays anonymous",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: "not-a-jwt"})
			},
		},
		{
			name: "unknown session stays anonymous",
			prepare: func(r *http.Request) {
				other, err := maker.GenerateToken("sid-gone")
				require.NoError(t, err)
				r.AddCookie(&http.Cookie{Name: cookieName, Value: other})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSession *models.Session
			var gotToken string
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSession = SessionFrom(r.Context())
				gotToken = TokenFrom(r.Context())
			})

			mw := SessionMiddleware(maker, loader, cookieName, newNoopLogger())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			mw(inner).ServeHTTP(httptest.NewRecorder(), req)

			if tt.wantSession {
				require.NotNil(t, gotSession)
				assert.Equal(t, tt.wantToken, gotToken)
			} else {
				assert.Nil(t, gotSession)
				assert.Empty(t, gotToken)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	mw := RequireSession(newNoopLogger())

	// Anonymous request is rejected before reaching the handler.
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	// A request with a resolved session passes through.
	ctx := context.WithValue(context.Background(), SessionKey, &models.Session{Token: "tok"})
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	assert.True(t, called)
}
