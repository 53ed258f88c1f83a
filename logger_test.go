package authscheme

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogSatisfiesLogger(t *testing.T) {
	var buf bytes.Buffer
	var logger Logger = slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("info message", "scheme", "Bearer")
	assert.Contains(t, buf.String(), "scheme=Bearer")
}

func TestZapLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(core).Sugar())

	logger.Debug("debug message", "scheme", "Bearer")
	assert.Equal(t, 0, recorded.Len(), "Debug message should not be recorded at Info level")

	logger.Info("info message", "scheme", "Bearer")
	require.Equal(t, 1, recorded.Len(), "Info message should be recorded")
	entry := recorded.All()[0]
	assert.Equal(t, "info message", entry.Message)
	assert.Equal(t, "Bearer", entry.ContextMap()["scheme"])

	logger.Warn("warn message")
	require.Equal(t, 2, recorded.Len(), "Warn message should be recorded")
	assert.Equal(t, zapcore.WarnLevel, recorded.All()[1].Level)

	logger.Error("error message", "error", "boom")
	require.Equal(t, 3, recorded.Len(), "Error message should be recorded")
	assert.Equal(t, zapcore.ErrorLevel, recorded.All()[2].Level)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Debug("debug message", "scheme", "Basic")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", "status", 401)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "debug", first["level"])
	assert.Equal(t, "debug message", first["message"])
	assert.Equal(t, "Basic", first["scheme"])

	var last map[string]any
	require.NoError(t, json.Unmarshal(lines[3], &last))
	assert.Equal(t, "error", last["level"])
	assert.Equal(t, float64(401), last["status"])
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer

	logrusLogger := logrus.New()
	logrusLogger.Out = &buf
	logrusLogger.Level = logrus.InfoLevel

	logger := NewLogrusLogger(logrusLogger)

	logger.Debug("debug message")
	logger.Info("info message", "scheme", "Cookies")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()

	// Debug level should not be logged at InfoLevel
	assert.NotContains(t, output, "debug message", "Debug messages should not be logged at Info level")

	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "scheme=Cookies")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")

	buf.Reset()
	logrusLogger.Level = logrus.DebugLevel

	logger.Debug("debug message")
	assert.Contains(t, buf.String(), "debug message", "Debug messages should be logged at Debug level")
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want map[string]any
	}{
		{
			name: "pairs",
			args: []any{"scheme", "Bearer", "status", 401},
			want: map[string]any{"scheme": "Bearer", "status": 401},
		},
		{
			name: "dangling value",
			args: []any{"scheme", "Bearer", "orphan"},
			want: map[string]any{"scheme": "Bearer", "!BADKEY": "orphan"},
		},
		{
			name: "non-string key",
			args: []any{42, "value"},
			want: map[string]any{"!BADKEY": "value"},
		},
		{
			name: "empty",
			want: map[string]any{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fields(tc.args))
		})
	}
}
