package core

// Options is the configuration every scheme handler shares.
// Concrete schemes embed it in their own options struct:
//
//	type Options struct {
//	    core.Options
//	    Realm string
//	}
//
// Options are read through a pointer on every call, so changes made after
// the handler was built are observed by later operations.
type Options struct {
	// SchemeName identifies the handler. Empty is valid and means no
	// explicit scheme can ever select this handler.
	SchemeName string

	// AutomaticAuthenticate makes the handler answer requests that name no scheme.
	// Default: false
	AutomaticAuthenticate bool

	// DisplayName is a human-readable label returned by Describe.
	DisplayName string
}

// AuthenticationOptions returns the shared options. It is promoted to any
// struct embedding Options, which is how such structs satisfy SchemeOptions.
func (o *Options) AuthenticationOptions() *Options { return o }

// SchemeOptions is satisfied by pointers to structs that embed Options.
type SchemeOptions interface {
	AuthenticationOptions() *Options
}

// Logger defines an optional logging interface for handlers.
// It is compatible with *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }
