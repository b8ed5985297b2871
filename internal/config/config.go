package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-employee-console/pkg/database"
)

// Config holds all configuration for the console and the sandbox API.
type Config struct {
	AppName string
	Env     string
	Port    string

	APIBaseURL     string
	APITimeout     time.Duration
	RequestTimeout time.Duration

	CookieSecure   bool
	SnapshotTTL    time.Duration
	SearchDebounce time.Duration
	LogLevel       string

	DB database.Config

	SandboxPort string
	JWTSecret   string
	JWTTTL      time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppName:        getEnv("APP_NAME", "Employee Console"),
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "3000"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "https://crud.parxfit.com"), "/"),
		APITimeout:     getEnvAsDuration("API_TIMEOUT", 10*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
		SnapshotTTL:    getEnvAsDuration("SNAPSHOT_TTL", 24*time.Hour),
		SearchDebounce: getEnvAsDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DB: database.Config{
			Driver:          getEnv("DB_DRIVER", database.DriverSQLite),
			DSN:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "employee_console"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		SandboxPort: getEnv("SANDBOX_PORT", "8081"),
		JWTSecret:   getEnv("JWT_SECRET", "default-secret-change-me"),
		JWTTTL:      getEnvAsDuration("JWT_TTL", 24*time.Hour),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverSQLite, database.DriverPostgres, c.DB.Driver)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LogFields describes the config for startup logs. Secrets are left out.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("app", c.AppName),
		zap.String("env", c.Env),
		zap.String("port", c.Port),
		zap.String("api_base_url", c.APIBaseURL),
		zap.Duration("api_timeout", c.APITimeout),
		zap.Duration("request_timeout", c.RequestTimeout),
		zap.Bool("cookie_secure", c.CookieSecure),
		zap.Duration("snapshot_ttl", c.SnapshotTTL),
		zap.Duration("search_debounce", c.SearchDebounce),
		zap.String("db_driver", c.DB.Driver),
		zap.String("log_level", c.LogLevel),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
