package login

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (string, bool) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Bool(1)
}

func (m *MockService) Current(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(*MockService)
		wantStatus int
		wantCookie bool
	}{
		{
			name: "success",
			body: `{"email":"a@b.c","password":"secret1"}`,
			setupMocks: func(s *MockService) {
				s.On("Login", mock.Anything, "a@b.c", "secret1").Return("sid-1", true).Once()
				s.On("Current", mock.Anything, "sid-1").
					Return(&models.Session{Token: "tok", Customer: models.Customer{ID: "1", Name: "An"}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCookie: true,
		},
		{
			name: "rejected credentials",
			body: `{"email":"a@b.c","password":"wrongpw"}`,
			setupMocks: func(s *MockService) {
				s.On("Login", mock.Anything, "a@b.c", "wrongpw").Return("", false).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed json",
			body:       `{`,
			setupMocks: func(s *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "validation failure",
			body:       `{"email":"not-an-email","password":"x"}`,
			setupMocks: func(s *MockService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMocks(svc)

			maker := jwt.NewMaker("test-secret", time.Hour)
			h := New(newNoopLogger(), svc, maker, "cafedaily_session", time.Hour)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCookie {
				cookies := rec.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, "cafedaily_session", cookies[0].Name)
				assert.True(t, cookies[0].HttpOnly)

				claims, err := maker.ParseToken(cookies[0].Value)
				require.NoError(t, err)
				assert.Equal(t, "sid-1", claims.SessionID)

				var resp struct {
					Status string `json:"status"`
					Data   struct {
						Customer models.Customer `json:"customer"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, "An", resp.Data.Customer.Name)
			} else {
				assert.Empty(t, rec.Result().Cookies())
			}

			svc.AssertExpectations(t)
		})
	}
}
