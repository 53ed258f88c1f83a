// Package config builds an authscheme.Middleware from a YAML file and
// environment variables.
//
//	bearer:
//	  automatic: true
//	  issuer: https://issuer.example.com/
//	  audience: [my-api]
//	cookie:
//	  automatic: true
//	  signing_key: ${32+ random bytes}
//	default_challenge_scheme: Bearer
//
// Environment variables prefixed with AUTHSCHEME_ override file values.
package config

import (
	"errors"
	"time"
)

var (
	// ErrDecode is returned when the configuration file cannot be decoded.
	ErrDecode = errors.New("config decode failed")

	// ErrNoSchemes is returned when no scheme section is configured.
	ErrNoSchemes = errors.New("at least one of bearer, basic or cookie must be configured")
)

// Config is the file and environment configuration.
type Config struct {
	CredentialsOptional    bool     `yaml:"credentials_optional"`
	DefaultChallengeScheme string   `yaml:"default_challenge_scheme"`
	ExcludeURLs            []string `yaml:"exclude_urls"`

	Log LogConfig `yaml:"log"`

	Bearer *BearerConfig `yaml:"bearer"`
	Basic  *BasicConfig  `yaml:"basic"`
	Cookie *CookieConfig `yaml:"cookie"`
}

// LogConfig selects the logger handed to the middleware.
type LogConfig struct {
	// Backend is one of "slog", "zap", "zerolog", "logrus" or "none".
	// Default: "none"
	Backend string `yaml:"backend"`

	// Level is one of "debug", "info", "warn", "error". Default: "info"
	Level string `yaml:"level"`
}

// SchemeConfig holds the settings every scheme shares.
type SchemeConfig struct {
	Name        string `yaml:"name"`
	Automatic   bool   `yaml:"automatic"`
	DisplayName string `yaml:"display_name"`
}

// BearerConfig configures JWT bearer authentication. Keys come from
// SecretKey when set, otherwise from the issuer's JWKS endpoint.
type BearerConfig struct {
	SchemeConfig `yaml:",inline"`

	Issuer              string        `yaml:"issuer"`
	Audience            []string      `yaml:"audience"`
	Algorithm           string        `yaml:"algorithm"`
	SecretKey           string        `yaml:"secret_key"`
	JWKSURI             string        `yaml:"jwks_uri"`
	CacheTTL            time.Duration `yaml:"cache_ttl"`
	ClockSkew           time.Duration `yaml:"clock_skew"`
	Realm               string        `yaml:"realm"`
	IncludeErrorDetails bool          `yaml:"include_error_details"`
}

// BasicConfig configures HTTP basic authentication against bcrypt hashes.
type BasicConfig struct {
	SchemeConfig `yaml:",inline"`

	Realm         string            `yaml:"realm"`
	AdvertiseUTF8 bool              `yaml:"advertise_utf8"`
	Users         map[string]string `yaml:"users"`
}

// CookieConfig configures signed session cookies.
type CookieConfig struct {
	SchemeConfig `yaml:",inline"`

	CookieName        string        `yaml:"cookie_name"`
	SigningKey        string        `yaml:"signing_key"`
	Issuer            string        `yaml:"issuer"`
	ExpireTimeSpan    time.Duration `yaml:"expire_time_span"`
	SlidingExpiration bool          `yaml:"sliding_expiration"`
	LoginPath         string        `yaml:"login_path"`
	Domain            string        `yaml:"domain"`
	Secure            bool          `yaml:"secure"`
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Log.Backend == "" {
		c.Log.Backend = "none"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Bearer != nil && c.Bearer.Algorithm == "" {
		c.Bearer.Algorithm = "RS256"
	}
}

// Validate checks required values.
func (c *Config) Validate() error {
	if c.Bearer == nil && c.Basic == nil && c.Cookie == nil {
		return ErrNoSchemes
	}

	switch c.Log.Backend {
	case "none", "slog", "zap", "zerolog", "logrus":
	default:
		return errors.New("log.backend must be one of none, slog, zap, zerolog, logrus")
	}

	if b := c.Bearer; b != nil {
		if b.Issuer == "" {
			return errors.New("bearer.issuer is required")
		}
		if len(b.Audience) == 0 {
			return errors.New("bearer.audience is required")
		}
	}
	if b := c.Basic; b != nil && len(b.Users) == 0 {
		return errors.New("basic.users cannot be empty")
	}
	if ck := c.Cookie; ck != nil && ck.SigningKey == "" {
		return errors.New("cookie.signing_key is required")
	}
	return nil
}
