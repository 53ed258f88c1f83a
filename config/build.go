package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/auth0/go-authscheme"
	"github.com/auth0/go-authscheme/core"
	"github.com/auth0/go-authscheme/jwks"
	"github.com/auth0/go-authscheme/schemes/basic"
	"github.com/auth0/go-authscheme/schemes/bearer"
	"github.com/auth0/go-authscheme/schemes/cookie"
	"github.com/auth0/go-authscheme/validator"
)

// New builds a Middleware from cfg. extra options are applied after the
// configured ones.
func New(cfg *Config, extra ...authscheme.Option) (*authscheme.Middleware, error) {
	opts, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	return authscheme.New(append(opts, extra...)...)
}

// Build turns cfg into middleware options. Schemes are registered in the
// order cookie, basic, bearer.
func Build(cfg *Config) ([]authscheme.Option, error) {
	var opts []authscheme.Option

	if c := cfg.Cookie; c != nil {
		opts = append(opts, authscheme.WithScheme(cookie.Register(&cookie.Options{
			Options:           c.coreOptions(),
			SigningKey:        []byte(c.SigningKey),
			CookieName:        c.CookieName,
			Issuer:            c.Issuer,
			ExpireTimeSpan:    c.ExpireTimeSpan,
			SlidingExpiration: c.SlidingExpiration,
			LoginPath:         c.LoginPath,
			Domain:            c.Domain,
			Secure:            c.Secure,
		})))
	}

	if b := cfg.Basic; b != nil {
		opts = append(opts, authscheme.WithScheme(basic.Register(&basic.Options{
			Options:       b.coreOptions(),
			Validator:     basic.NewBcryptStore(b.Users),
			Realm:         b.Realm,
			AdvertiseUTF8: b.AdvertiseUTF8,
		})))
	}

	if b := cfg.Bearer; b != nil {
		v, err := newValidator(b)
		if err != nil {
			return nil, fmt.Errorf("bearer: %w", err)
		}
		opts = append(opts, authscheme.WithScheme(bearer.Register(&bearer.Options{
			Options:             b.coreOptions(),
			Validator:           v,
			Realm:               b.Realm,
			IncludeErrorDetails: b.IncludeErrorDetails,
		})))
	}

	opts = append(opts, authscheme.WithCredentialsOptional(cfg.CredentialsOptional))
	if cfg.DefaultChallengeScheme != "" {
		opts = append(opts, authscheme.WithDefaultChallengeScheme(cfg.DefaultChallengeScheme))
	}
	if len(cfg.ExcludeURLs) > 0 {
		opts = append(opts, authscheme.WithExclusionUrls(cfg.ExcludeURLs))
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		opts = append(opts, authscheme.WithLogger(logger))
	}
	return opts, nil
}

func (s SchemeConfig) coreOptions() core.Options {
	return core.Options{
		SchemeName:            s.Name,
		AutomaticAuthenticate: s.Automatic,
		DisplayName:           s.DisplayName,
	}
}

func newValidator(b *BearerConfig) (*validator.Validator, error) {
	opts := []validator.Option{
		validator.WithAlgorithm(validator.SignatureAlgorithm(b.Algorithm)),
		validator.WithIssuer(b.Issuer),
		validator.WithAudiences(b.Audience),
	}
	if b.ClockSkew > 0 {
		opts = append(opts, validator.WithAllowedClockSkew(b.ClockSkew))
	}

	if b.SecretKey != "" {
		opts = append(opts, validator.WithKey([]byte(b.SecretKey)))
		return validator.New(opts...)
	}

	issuerURL, err := url.Parse(b.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}
	providerOpts := []jwks.Option{jwks.WithIssuerURL(issuerURL), jwks.WithCacheTTL(b.CacheTTL)}
	if b.JWKSURI != "" {
		jwksURI, err := url.Parse(b.JWKSURI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse the jwks url: %w", err)
		}
		providerOpts = append(providerOpts, jwks.WithCustomJWKSURI(jwksURI))
	}

	provider, err := jwks.NewCachingProvider(providerOpts...)
	if err != nil {
		return nil, err
	}
	opts = append(opts, validator.WithKeySet(provider.KeySet))
	return validator.New(opts...)
}

// newLogger returns nil for the "none" backend.
func newLogger(c LogConfig) (authscheme.Logger, error) {
	level := strings.ToLower(c.Level)

	switch c.Backend {
	case "slog":
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
	case "zap":
		zc := zap.NewProductionConfig()
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		zc.Level = lvl
		l, err := zc.Build()
		if err != nil {
			return nil, fmt.Errorf("could not build zap logger: %w", err)
		}
		return authscheme.NewZapLogger(l.Sugar()), nil
	case "zerolog":
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		return authscheme.NewZerologLogger(zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()), nil
	case "logrus":
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		l := logrus.New()
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(lvl)
		return authscheme.NewLogrusLogger(l), nil
	}
	return nil, nil
}
