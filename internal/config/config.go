// Package config provides the structures and the loader for the service
// configuration.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top-level configuration of the service.
type Config struct {
	Env             string `yaml:"env" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Backend         `yaml:"backend"`
	RedisConnection `yaml:"redis_connection"`
	Session         `yaml:"session"`
	PaymentFlow     `yaml:"payment_flow"`
	CORS            `yaml:"cors"`
}

// HTTPServer holds the settings of the public HTTP server.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Backend describes the remote backend that owns all durable state.
// Every call carries Timeout; the plan catalog additionally retries up to
// RetryMax times with a fixed RetryDelay between attempts.
type Backend struct {
	BaseURL    string        `yaml:"base_url" env:"BACKEND_BASE_URL"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
	RetryMax   int           `yaml:"retry_max" env-default:"3"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RedisConnection holds the settings of the session store connection.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Session configures the signed session cookie and the lifetime of the
// server-side session entry.
type Session struct {
	CookieName   string        `yaml:"cookie_name" env-default:"cafedaily_session"`
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"SESSION_JWT_SECRET"`
	TTL          time.Duration `yaml:"ttl" env-default:"72h"`
}

// PaymentFlow holds the timings of the order/payment flow. The values are
// configuration so tests can compress them.
type PaymentFlow struct {
	PollInterval     time.Duration `yaml:"poll_interval" env-default:"4s"`
	CardAutoClose    time.Duration `yaml:"card_auto_close" env-default:"3s"`
	SuccessAutoClose time.Duration `yaml:"success_auto_close" env-default:"2500ms"`
}

// CORS lists the browser origins allowed to call the API.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MustLoad loads the configuration from the file pointed to by CONFIG_PATH
// and terminates the process when it cannot.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
