package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	t.Setenv("CONFIG_PATH", tmpFile.Name())
}

func TestMustLoad_ValidConfig(t *testing.T) {
	writeConfig(t, `
env: test
http_server:
  addresshttp: ":8080"
  timeouthttp: 30s
  idle_timeout: 60s
backend:
  base_url: "https://api.example.com/api"
  timeout: 5s
  retry_max: 2
  retry_delay: 1s
redis_connection:
  addressredis: "localhost:6379"
  db: 1
session:
  cookie_name: "test_session"
  jwt_secret_key: "test_secret"
  ttl: 24h
payment_flow:
  poll_interval: 4s
  card_auto_close: 3s
  success_auto_close: 2500ms
cors:
  allowed_origins:
    - "http://localhost:5173"
`)

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, ":8080", cfg.AddressHTTP)
	assert.Equal(t, 30*time.Second, cfg.TimeoutHTTP)
	assert.Equal(t, "https://api.example.com/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2, cfg.Backend.RetryMax)
	assert.Equal(t, time.Second, cfg.Backend.RetryDelay)
	assert.Equal(t, "localhost:6379", cfg.AddressRedis)
	assert.Equal(t, 1, cfg.RedisConnection.DB)
	assert.Equal(t, "test_session", cfg.Session.CookieName)
	assert.Equal(t, "test_secret", cfg.Session.JWTSecretKey)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 4*time.Second, cfg.PaymentFlow.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.PaymentFlow.CardAutoClose)
	assert.Equal(t, 2500*time.Millisecond, cfg.PaymentFlow.SuccessAutoClose)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestMustLoad_Defaults(t *testing.T) {
	writeConfig(t, `
backend:
  base_url: "https://api.example.com/api"
session:
  jwt_secret_key: "test_secret"
`)

	cfg := MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.AddressHTTP)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 3, cfg.Backend.RetryMax)
	assert.Equal(t, 2*time.Second, cfg.Backend.RetryDelay)
	assert.Equal(t, "cafedaily_session", cfg.Session.CookieName)
	assert.Equal(t, 72*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 4*time.Second, cfg.PaymentFlow.PollInterval)
	assert.Equal(t, 2500*time.Millisecond, cfg.PaymentFlow.SuccessAutoClose)
}
