package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file, applies environment overrides, fills defaults
// and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("empty config path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: yaml decode %q: %v", ErrDecode, path, err)
	}

	return finish(&cfg, path)
}

// FromEnv builds the configuration from environment variables alone.
func FromEnv() (*Config, error) {
	return finish(&Config{}, "environment")
}

func finish(cfg *Config, source string) (*Config, error) {
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", source, err)
	}
	return cfg, nil
}

// envConfig is the flat environment view of Config. It is seeded from the
// file values so that only variables that are set replace them.
type envConfig struct {
	CredentialsOptional    bool     `env:"AUTHSCHEME_CREDENTIALS_OPTIONAL"`
	DefaultChallengeScheme string   `env:"AUTHSCHEME_DEFAULT_CHALLENGE_SCHEME"`
	ExcludeURLs            []string `env:"AUTHSCHEME_EXCLUDE_URLS" envSeparator:","`
	LogBackend             string   `env:"AUTHSCHEME_LOG_BACKEND"`
	LogLevel               string   `env:"AUTHSCHEME_LOG_LEVEL"`

	BearerIssuer    string        `env:"AUTHSCHEME_BEARER_ISSUER"`
	BearerAudience  []string      `env:"AUTHSCHEME_BEARER_AUDIENCE" envSeparator:","`
	BearerAlgorithm string        `env:"AUTHSCHEME_BEARER_ALGORITHM"`
	BearerSecretKey string        `env:"AUTHSCHEME_BEARER_SECRET_KEY"`
	BearerJWKSURI   string        `env:"AUTHSCHEME_BEARER_JWKS_URI"`
	BearerCacheTTL  time.Duration `env:"AUTHSCHEME_BEARER_CACHE_TTL"`

	CookieSigningKey string `env:"AUTHSCHEME_COOKIE_SIGNING_KEY"`
	CookieSecure     bool   `env:"AUTHSCHEME_COOKIE_SECURE"`
}

func applyEnv(cfg *Config) error {
	bearer := cfg.Bearer
	if bearer == nil {
		bearer = &BearerConfig{}
	}
	cookie := cfg.Cookie
	if cookie == nil {
		cookie = &CookieConfig{}
	}

	e := envConfig{
		CredentialsOptional:    cfg.CredentialsOptional,
		DefaultChallengeScheme: cfg.DefaultChallengeScheme,
		ExcludeURLs:            cfg.ExcludeURLs,
		LogBackend:             cfg.Log.Backend,
		LogLevel:               cfg.Log.Level,
		BearerIssuer:           bearer.Issuer,
		BearerAudience:         bearer.Audience,
		BearerAlgorithm:        bearer.Algorithm,
		BearerSecretKey:        bearer.SecretKey,
		BearerJWKSURI:          bearer.JWKSURI,
		BearerCacheTTL:         bearer.CacheTTL,
		CookieSigningKey:       cookie.SigningKey,
		CookieSecure:           cookie.Secure,
	}
	if err := env.Parse(&e); err != nil {
		return err
	}

	cfg.CredentialsOptional = e.CredentialsOptional
	cfg.DefaultChallengeScheme = e.DefaultChallengeScheme
	cfg.ExcludeURLs = e.ExcludeURLs
	cfg.Log.Backend = e.LogBackend
	cfg.Log.Level = e.LogLevel

	bearer.Issuer = e.BearerIssuer
	bearer.Audience = e.BearerAudience
	bearer.Algorithm = e.BearerAlgorithm
	bearer.SecretKey = e.BearerSecretKey
	bearer.JWKSURI = e.BearerJWKSURI
	bearer.CacheTTL = e.BearerCacheTTL
	if cfg.Bearer == nil && bearer.Issuer != "" {
		bearer.Name = "Bearer"
		bearer.Automatic = true
		cfg.Bearer = bearer
	}

	cookie.SigningKey = e.CookieSigningKey
	cookie.Secure = e.CookieSecure
	if cfg.Cookie == nil && cookie.SigningKey != "" {
		cookie.Name = "Cookies"
		cookie.Automatic = true
		cfg.Cookie = cookie
	}
	return nil
}
