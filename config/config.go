// Package config provides environment-driven configuration for the gateway
// and the static registry of downstream service endpoints.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/3a-softwares/E-Storefront-Services/errors"
)

// DefaultCORSOrigins are the origins allowed when ALLOWED_ORIGINS is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:4000",
}

// Endpoint is one downstream service: a logical name and its base URL.
// Read-only after startup.
type Endpoint struct {
	Name    string
	BaseURL string
}

// Config holds all gateway configuration. Populated by Load and immutable
// afterwards.
type Config struct {
	Port             int
	Environment      string
	AllowedOrigins   []string
	EnablePlayground bool
	MongoURI         string
	SeedDatabase     string

	// HealthTimeoutStr is the per-service health check timeout (default 5s).
	HealthTimeoutStr string
	// ClientTimeoutStr is the downstream request timeout (default 30s).
	ClientTimeoutStr string

	Services Registry

	healthTimeout time.Duration
	clientTimeout time.Duration
}

// serviceDefault pairs a service name with its env var and fallback URL.
// The set of downstream services is fixed at startup.
var serviceDefaults = []struct {
	name     string
	envVar   string
	fallback string
}{
	{"auth", "AUTH_SERVICE_URL", "http://localhost:4001"},
	{"category", "CATEGORY_SERVICE_URL", "http://localhost:4004"},
	{"coupon", "COUPON_SERVICE_URL", "http://localhost:4005"},
	{"order", "ORDER_SERVICE_URL", "http://localhost:4003"},
	{"product", "PRODUCT_SERVICE_URL", "http://localhost:4002"},
	{"ticket", "TICKET_SERVICE_URL", "http://localhost:4006"},
}

// Load reads configuration from the environment, applying hardcoded
// defaults for anything unset. A .env file is loaded first when present.
func Load() (*Config, error) {
	// Best effort: the .env file is a development convenience.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", 4000)
	v.SetDefault("NODE_ENV", "development")
	v.SetDefault("ENABLE_PLAYGROUND", true)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017/ecommerce")
	v.SetDefault("SEED_DATABASE", "ecommerce")
	v.SetDefault("HEALTH_TIMEOUT", "5s")
	v.SetDefault("CLIENT_TIMEOUT", "30s")

	cfg := &Config{
		Port:             v.GetInt("PORT"),
		Environment:      v.GetString("NODE_ENV"),
		EnablePlayground: v.GetBool("ENABLE_PLAYGROUND"),
		MongoURI:         v.GetString("MONGODB_URI"),
		SeedDatabase:     v.GetString("SEED_DATABASE"),
		HealthTimeoutStr: v.GetString("HEALTH_TIMEOUT"),
		ClientTimeoutStr: v.GetString("CLIENT_TIMEOUT"),
		AllowedOrigins:   parseOrigins(v.GetString("ALLOWED_ORIGINS")),
	}

	endpoints := make([]Endpoint, 0, len(serviceDefaults))
	for _, sd := range serviceDefaults {
		url := v.GetString(sd.envVar)
		if url == "" {
			url = sd.fallback
		}
		endpoints = append(endpoints, Endpoint{Name: sd.name, BaseURL: strings.TrimRight(url, "/")})
	}
	cfg.Services = NewRegistry(endpoints)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empty entries. Returns the defaults when raw is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return append([]string(nil), DefaultCORSOrigins...)
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), DefaultCORSOrigins...)
	}
	return origins
}

// Validate normalizes defaults and rejects unusable values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("port out of range: %d", c.Port))
	}

	if c.Environment == "" {
		c.Environment = "development"
	}

	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = append([]string(nil), DefaultCORSOrigins...)
	}

	if c.HealthTimeoutStr == "" {
		c.HealthTimeoutStr = "5s"
	}
	ht, err := time.ParseDuration(c.HealthTimeoutStr)
	if err != nil {
		return errors.WrapInvalid(err, "Config", "Validate",
			fmt.Sprintf("invalid health timeout: %s", c.HealthTimeoutStr))
	}
	c.healthTimeout = ht

	if c.ClientTimeoutStr == "" {
		c.ClientTimeoutStr = "30s"
	}
	ct, err := time.ParseDuration(c.ClientTimeoutStr)
	if err != nil {
		return errors.WrapInvalid(err, "Config", "Validate",
			fmt.Sprintf("invalid client timeout: %s", c.ClientTimeoutStr))
	}
	c.clientTimeout = ct

	if c.Services.Len() == 0 {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
			"no downstream services registered")
	}

	return nil
}

// HealthTimeout returns the parsed per-service health check timeout.
func (c *Config) HealthTimeout() time.Duration {
	return c.healthTimeout
}

// ClientTimeout returns the parsed downstream request timeout.
func (c *Config) ClientTimeout() time.Duration {
	return c.clientTimeout
}

// IsDevelopment reports whether the gateway runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
