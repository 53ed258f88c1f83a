package authscheme

import (
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// NewZapLogger returns a Logger adapter for zap.SugaredLogger.
// Key/value arguments map onto zap's loosely typed fields.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapLoggerAdapter{l}
}

type zapLoggerAdapter struct{ l *zap.SugaredLogger }

func (z *zapLoggerAdapter) Debug(msg string, args ...any) { z.l.Debugw(msg, args...) }
func (z *zapLoggerAdapter) Info(msg string, args ...any)  { z.l.Infow(msg, args...) }
func (z *zapLoggerAdapter) Warn(msg string, args ...any)  { z.l.Warnw(msg, args...) }
func (z *zapLoggerAdapter) Error(msg string, args ...any) { z.l.Errorw(msg, args...) }

// NewZerologLogger returns a Logger adapter for zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLoggerAdapter{l}
}

type zerologLoggerAdapter struct{ l zerolog.Logger }

func (z *zerologLoggerAdapter) Debug(msg string, args ...any) {
	z.l.Debug().Fields(fields(args)).Msg(msg)
}
func (z *zerologLoggerAdapter) Info(msg string, args ...any) {
	z.l.Info().Fields(fields(args)).Msg(msg)
}
func (z *zerologLoggerAdapter) Warn(msg string, args ...any) {
	z.l.Warn().Fields(fields(args)).Msg(msg)
}
func (z *zerologLoggerAdapter) Error(msg string, args ...any) {
	z.l.Error().Fields(fields(args)).Msg(msg)
}

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (l *logrusLoggerAdapter) Debug(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Debug(msg)
}
func (l *logrusLoggerAdapter) Info(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Info(msg)
}
func (l *logrusLoggerAdapter) Warn(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Warn(msg)
}
func (l *logrusLoggerAdapter) Error(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Error(msg)
}

// fields turns slog style key/value pairs into a map. A dangling value or a
// non-string key is kept under "!BADKEY", as log/slog does.
func fields(args []any) map[string]any {
	out := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i++ {
		key, ok := args[i].(string)
		if !ok || i+1 == len(args) {
			out["!BADKEY"] = args[i]
			continue
		}
		out[key] = args[i+1]
		i++
	}
	return out
}
