package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort string
	JWTSecret  string
	JWTTTL     time.Duration
	Postgres   PostgresConfig
	Logging    LoggingConfig
	CORS       CORSConfig
}

type PostgresConfig struct {
	DSN               string
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

type CORSConfig struct {
	// AllowedOrigins is a comma-separated list. Empty means allow all,
	// which is only appropriate for local development.
	AllowedOrigins   string
	AllowCredentials bool
}

func LoadConfig() (*Config, error) {
	port := envOrDefault("PORT", "8080")
	jwtSecret := envOrDefault("JWT_SECRET", "dev-secret")
	jwtTTL := parseDuration(envOrDefault("JWT_EXPIRE", "24h"), 24*time.Hour)

	pgPort, _ := strconv.Atoi(envOrDefault("POSTGRES_PORT", "5432"))
	maxConns := parseInt32(envOrDefault("POSTGRES_MAX_CONNS", "8"), 8)
	minConns := parseInt32(envOrDefault("POSTGRES_MIN_CONNS", "1"), 1)

	logging := LoggingConfig{
		Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
		Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
		EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
		ServiceName:  envOrDefault("SERVICE_NAME", "taskdeck-api"),
	}

	cfg := &Config{
		ServerPort: port,
		JWTSecret:  jwtSecret,
		JWTTTL:     jwtTTL,
		Postgres: PostgresConfig{
			DSN:               os.Getenv("POSTGRES_DSN"),
			Host:              envOrDefault("POSTGRES_HOST", "localhost"),
			Port:              pgPort,
			User:              envOrDefault("POSTGRES_USER", "postgres"),
			Password:          envOrDefault("POSTGRES_PASSWORD", "postgres"),
			Database:          envOrDefault("POSTGRES_DB", "taskdeck"),
			MaxConns:          maxConns,
			MinConns:          minConns,
			MaxConnLifetime:   parseDuration(envOrDefault("POSTGRES_MAX_CONN_LIFETIME", "1h"), time.Hour),
			MaxConnIdleTime:   parseDuration(envOrDefault("POSTGRES_MAX_CONN_IDLE", "30m"), 30*time.Minute),
			HealthCheckPeriod: parseDuration(envOrDefault("POSTGRES_HEALTH_CHECK_PERIOD", "1m"), time.Minute),
			ConnectTimeout:    parseDuration(envOrDefault("POSTGRES_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Logging: logging,
		CORS: CORSConfig{
			AllowedOrigins:   os.Getenv("ALLOWED_ORIGINS"),
			AllowCredentials: parseBool(envOrDefault("ALLOW_CREDENTIALS", "false"), false),
		},
	}

	return cfg, nil
}

func (c PostgresConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.Database)
}

func (c CORSConfig) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			origins = append(origins, s)
		}
	}
	return origins
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt32(value string, fallback int32) int32 {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return int32(i)
}

func parseBool(value string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}
