package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "json token", body: `{"token":"abc123"}`, want: "abc123"},
		{name: "raw text token", body: "abc123", want: "abc123"},
		{name: "quoted text token", body: `"abc123"`, want: "abc123"},
		{name: "object without token", body: `{"message":"ok"}`, want: ""},
		{name: "array", body: `[1,2]`, want: ""},
		{name: "empty", body: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractToken([]byte(tt.body)))
		})
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"token":"tok-1"}`))
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL, 0).Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestLogin_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantInText string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantKind: KindAuthRequired, wantInText: "unauthorized, please login again"},
		{name: "forbidden", status: http.StatusForbidden, wantKind: KindForbidden, wantInText: "customer role required"},
		{name: "validation passthrough", status: http.StatusBadRequest, body: `{"message":"email is taken"}`, wantKind: KindValidation, wantInText: "email is taken"},
		{name: "server", status: http.StatusInternalServerError, wantKind: KindServer, wantInText: "server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, 0).Login(context.Background(), "a@b.c", "secret")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.Contains(t, err.Error(), tt.wantInText)
		})
	}
}

func TestRegister_TolerantResult(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantToken   string
		wantHasData bool
	}{
		{name: "created with null data", status: http.StatusCreated, body: `{"data":null}`, wantToken: "", wantHasData: false},
		{name: "ok with data and token", status: http.StatusOK, body: `{"token":"tok-1","data":{"id":1}}`, wantToken: "tok-1", wantHasData: true},
		{name: "rejected with data echo", status: http.StatusBadRequest, body: `{"data":{"id":1}}`, wantToken: "", wantHasData: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, err := newTestClient(srv.URL, 0).Register(context.Background(), RegisterRequest{Email: "a@b.c"})
			require.NoError(t, err, "tolerant endpoints never map HTTP statuses to errors")
			assert.Equal(t, tt.status, res.StatusCode)
			assert.Equal(t, tt.wantToken, res.Token)
			assert.Equal(t, tt.wantHasData, res.HasData)
		})
	}
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL, 0).Login(context.Background(), "a@b.c", "secret")
	require.Error(t, err)
	assert.Equal(t, KindConnectivity, KindOf(err))
}
