package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/anatelli10/shipment-tracking/internal/core/domain"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	HTTP HTTPConfig
	UPS  UPSOAuthConfig
}

type HTTPConfig struct {
	// Timeout bounds a single carrier API round trip.
	Timeout time.Duration `env:"HTTP_TIMEOUT, default=30s"`
}

// UPSOAuthConfig switches the UPS courier to OAuth bearer authentication
// when both ClientID and ClientSecret are set. Left empty, UPS authenticates
// with the UPS_ACCESS_LICENSE_NUMBER credential instead.
type UPSOAuthConfig struct {
	ClientID     string `env:"UPS_CLIENT_ID"`
	ClientSecret string `env:"UPS_CLIENT_SECRET"`
	TokenURL     string `env:"UPS_TOKEN_URL, default=https://onlinetools.ups.com/security/v1/oauth/token"`
}

// Load reads configuration from environment variables using go-envconfig.
// Per-courier tracking credentials are deliberately not part of this struct:
// their presence is validated per track call, right before use.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Environment maps the ENV value onto the courier endpoint environment.
// Anything other than "production" selects the dev endpoints.
func (c *Config) Environment() domain.Environment {
	if c.Env == "production" {
		return domain.EnvProduction
	}
	return domain.EnvDevelopment
}

// OAuthEnabled reports whether the UPS OAuth client credentials are configured.
func (c *UPSOAuthConfig) OAuthEnabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
