// Package config loads the application configuration from the environment
// and adapts it to the interfaces the core packages consume.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// App is the environment-backed application configuration. It implements
// auth.Config for the token service and middleware.
type App struct {
	Addr  string `env:"MOSAIC_ADDR" envDefault:":8080"`
	DSN   string `env:"MOSAIC_DB_DSN" envDefault:"file:mosaic.db?cache=shared"`
	Debug bool   `env:"MOSAIC_DEBUG"`

	SigningKey            string   `env:"MOSAIC_SIGNING_KEY"`
	SigningMethod         string   `env:"MOSAIC_SIGNING_METHOD" envDefault:"HS256"`
	AccessTokenTTLSeconds int      `env:"MOSAIC_ACCESS_TOKEN_TTL" envDefault:"300"`
	Issuer                string   `env:"MOSAIC_ISSUER" envDefault:"mosaic"`
	Audience              []string `env:"MOSAIC_AUDIENCE" envDefault:"mosaic-api"`
	ContextKey            string   `env:"MOSAIC_CONTEXT_KEY" envDefault:"user"`
	AuthScheme            string   `env:"MOSAIC_AUTH_SCHEME" envDefault:"Bearer"`

	// DeterministicIDs derives new user ids from the registered email, so
	// re-importing the same accounts keeps their ids stable across databases.
	DeterministicIDs bool `env:"MOSAIC_DETERMINISTIC_IDS"`

	// Optional shared revocation registry. Empty means in-process.
	RedisAddr string `env:"MOSAIC_REDIS_ADDR"`

	// Media storage. Empty bucket disables presigned uploads.
	S3Bucket         string        `env:"MOSAIC_S3_BUCKET"`
	S3Region         string        `env:"MOSAIC_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint       string        `env:"MOSAIC_S3_ENDPOINT"`
	S3AccessKey      string        `env:"MOSAIC_S3_ACCESS_KEY"`
	S3SecretKey      string        `env:"MOSAIC_S3_SECRET_KEY"`
	MediaURLLifetime time.Duration `env:"MOSAIC_MEDIA_URL_LIFETIME" envDefault:"15m"`
}

// New loads the configuration from environment variables.
func New() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the process cannot safely run with.
func (a *App) Validate() error {
	if a.SigningKey == "" {
		return errors.New("MOSAIC_SIGNING_KEY is required", errors.CategoryValidation)
	}
	if a.SigningMethod != "HS256" {
		return errors.New("unsupported signing method", errors.CategoryValidation).
			WithMetadata(map[string]any{"method": a.SigningMethod})
	}
	if a.AccessTokenTTLSeconds <= 0 {
		return errors.New("access token ttl must be positive", errors.CategoryValidation)
	}
	return nil
}

func (a *App) GetSigningKey() string    { return a.SigningKey }
func (a *App) GetSigningMethod() string { return a.SigningMethod }
func (a *App) GetIssuer() string        { return a.Issuer }
func (a *App) GetAudience() []string    { return a.Audience }
func (a *App) GetContextKey() string    { return a.ContextKey }
func (a *App) GetAuthScheme() string    { return a.AuthScheme }

func (a *App) GetAccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLSeconds) * time.Second
}
