package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrMissingTokenSecret = errors.New("AUTH_TOKEN_SECRET is required")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for SQL store drivers")
	ErrUnknownDriver      = errors.New("unknown STORE_DRIVER")
)

type Config struct {
	Server ServerConfig
	OTLP   OTLPConfig
	Store  StoreConfig
	Auth   AuthConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
}

type OTLPConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
	Enabled     bool
}

type StoreConfig struct {
	Driver      string
	DatabaseURL string
	AutoMigrate bool
}

type AuthConfig struct {
	TokenSecret     string
	CookieName      string
	LoginURL        string
	TokenTTL        time.Duration
	APIRequireAdmin bool
}

type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OTLP: OTLPConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "products-catalog"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
			Enabled:     getEnvBool("OTEL_ENABLED", true),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			TokenSecret:     os.Getenv("AUTH_TOKEN_SECRET"),
			CookieName:      getEnv("AUTH_COOKIE_NAME", "catalog_session"),
			LoginURL:        getEnv("AUTH_LOGIN_URL", "/login"),
			TokenTTL:        getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			APIRequireAdmin: getEnvBool("API_REQUIRE_ADMIN", false),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements
func (c *Config) Validate() error {
	if c.Auth.TokenSecret == "" {
		return ErrMissingTokenSecret
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.Store.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver)
	}
	return nil
}

// Address returns the host:port the HTTP server binds to
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
