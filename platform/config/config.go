// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// UpstreamConfig provides settings for the external CRM data source.
type UpstreamConfig interface {
	GetUpstreamBaseURL() string
	GetUpstreamAPIToken() string
	GetUpstreamTimeout() time.Duration
}

// RedisConfig provides settings for the redis cache.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetStatusCacheTTL() time.Duration
	IsRedisEnabled() bool
}

// Config holds all application settings loaded from the environment.
type Config struct {
	Env             string
	HTTPAddr        string
	JWTAccessSecret string
	CORSAllowAll    bool
	CORSOrigins     []string
	CORSAllowCreds  bool
	RateLimitRPS    float64
	RateLimitBurst  int

	UpstreamBaseURL  string
	UpstreamAPIToken string
	UpstreamTimeout  time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	StatusCacheTTL time.Duration

	CallMethodLabels map[int64]string
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CORSAllowCreds:  strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:    mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:  mustInt(getEnv("RATE_LIMIT_BURST", "40")),

		UpstreamBaseURL:  getEnv("UPSTREAM_BASE_URL", ""),
		UpstreamAPIToken: getEnv("UPSTREAM_API_TOKEN", ""),
		UpstreamTimeout:  mustDuration(getEnv("UPSTREAM_TIMEOUT", "10s")),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        mustInt(getEnv("REDIS_DB", "0")),
		StatusCacheTTL: mustDuration(getEnv("STATUS_CACHE_TTL", "5m")),

		CallMethodLabels: parseIDLabels(getEnv("CALL_METHOD_LABELS", "")),
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool     { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool   { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64  { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int    { return c.RateLimitBurst }

func (c *Config) GetUpstreamBaseURL() string        { return c.UpstreamBaseURL }
func (c *Config) GetUpstreamAPIToken() string       { return c.UpstreamAPIToken }
func (c *Config) GetUpstreamTimeout() time.Duration { return c.UpstreamTimeout }

func (c *Config) GetRedisAddr() string              { return c.RedisAddr }
func (c *Config) GetRedisPassword() string          { return c.RedisPassword }
func (c *Config) GetRedisDB() int                   { return c.RedisDB }
func (c *Config) GetStatusCacheTTL() time.Duration  { return c.StatusCacheTTL }
func (c *Config) IsRedisEnabled() bool              { return c.RedisAddr != "" }

func (c *Config) GetCallMethodLabels() map[int64]string { return c.CallMethodLabels }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseIDLabels parses an "id:label" CSV (e.g. "1:Phone,2:WhatsApp") into a
// lookup map. Malformed pairs are skipped; an empty input yields nil.
func parseIDLabels(value string) map[int64]string {
	var out map[int64]string
	for _, pair := range splitCSV(value) {
		rawID, label, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		label = strings.TrimSpace(label)
		if err != nil || label == "" {
			continue
		}
		if out == nil {
			out = make(map[int64]string)
		}
		out[id] = label
	}
	return out
}

func containsWildcard(values []string) bool {
	for _, v := range values {
		if v == "*" {
			return true
		}
	}
	return false
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
