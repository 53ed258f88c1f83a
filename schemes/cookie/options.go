package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/auth0/go-authscheme/core"
)

// SchemeName is the default scheme name for cookie sessions.
const SchemeName = "Cookies"

const (
	DefaultCookieName         = "authscheme.session"
	DefaultIssuer             = "authscheme"
	DefaultExpireTimeSpan     = 14 * 24 * time.Hour
	DefaultLoginPath          = "/login"
	DefaultReturnURLParameter = "ReturnUrl"

	minSigningKeyLength = 32
)

var (
	// ErrSigningKeyTooShort is returned when Options.SigningKey has fewer
	// than 32 bytes.
	ErrSigningKeyTooShort = fmt.Errorf("cookie: signing key must be at least %d bytes", minSigningKeyLength)

	// ErrNegativeExpiry is returned for a negative ExpireTimeSpan.
	ErrNegativeExpiry = errors.New("cookie: expire time span cannot be negative")
)

// Options configures the cookie scheme.
type Options struct {
	core.Options

	// SigningKey signs the session cookie with HS256. Required.
	SigningKey []byte

	// CookieName defaults to DefaultCookieName.
	CookieName string

	// Issuer is written to and required in the session token.
	// Default: DefaultIssuer
	Issuer string

	// ExpireTimeSpan is the session lifetime. Default: 14 days.
	ExpireTimeSpan time.Duration

	// SlidingExpiration reissues the cookie once less than half of its
	// lifetime remains.
	SlidingExpiration bool

	// LoginPath is where challenges redirect. Default: "/login".
	LoginPath string

	// ReturnURLParameter carries the original URL to the login page.
	// Default: "ReturnUrl".
	ReturnURLParameter string

	// Cookie attributes. HttpOnly is always set.
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite

	// Clock returns the current time. Default: time.Now.
	Clock func() time.Time
}

// Validate checks the options and fills defaults.
func (o *Options) Validate() error {
	if len(o.SigningKey) < minSigningKeyLength {
		return ErrSigningKeyTooShort
	}
	if o.ExpireTimeSpan < 0 {
		return ErrNegativeExpiry
	}
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.Issuer == "" {
		o.Issuer = DefaultIssuer
	}
	if o.ExpireTimeSpan == 0 {
		o.ExpireTimeSpan = DefaultExpireTimeSpan
	}
	if o.LoginPath == "" {
		o.LoginPath = DefaultLoginPath
	}
	if o.ReturnURLParameter == "" {
		o.ReturnURLParameter = DefaultReturnURLParameter
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return nil
}

// Register returns the registration for authscheme.WithScheme. An empty
// SchemeName is set to "Cookies".
func Register(opts *Options) core.Registration {
	if opts != nil && opts.SchemeName == "" {
		opts.SchemeName = SchemeName
	}
	return core.Register(opts, New)
}
