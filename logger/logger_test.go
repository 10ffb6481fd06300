package logger_test

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback/logger"
)

func newTestLogger(w *bytes.Buffer, opts ...logger.LoggerOptFn) logger.Logger {
	opts = append([]logger.LoggerOptFn{logger.WithLogger(log.New(w, "", 0))}, opts...)
	return logger.New(opts...)
}

func TestSwitchbackLoggerLevels(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	tcs := []struct {
		name  string
		level logger.LogLevel
		emit  func(l logger.Logger)
		want  string
	}{
		{"Debug", logger.LogLevelDebug, func(l logger.Logger) { l.Debug("dig", nil) }, "[DEBUG]"},
		{"Info", logger.LogLevelDebug, func(l logger.Logger) { l.Info("hike", nil) }, "[INFO]"},
		{"Warn", logger.LogLevelDebug, func(l logger.Logger) { l.Warn("storm", nil) }, "[WARN]"},
		{"Error", logger.LogLevelDebug, func(l logger.Logger) { l.Error("lost", nil) }, "[ERROR]"},
		{"Fatal", logger.LogLevelDebug, func(l logger.Logger) { l.Fatal("bear", nil) }, "[FATAL]"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			b := new(bytes.Buffer)
			tc.emit(newTestLogger(b, logger.WithLevel(tc.level)))

			require.Contains(t, b.String(), tc.want)
			require.Contains(t, b.String(), "logger_test.go")
		})
	}
}

func TestSwitchbackLoggerFiltersBelowLevel(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	b := new(bytes.Buffer)
	l := newTestLogger(b, logger.WithLevel(logger.LogLevelError))

	l.Debug("quiet", nil)
	l.Info("quiet", nil)
	l.Warn("quiet", nil)
	require.Empty(t, b.String())

	l.Error("loud", nil)
	require.Contains(t, b.String(), "'loud'")
}

func TestSwitchbackLoggerLogContext(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	b := new(bytes.Buffer)
	l := newTestLogger(b, logger.WithLevel(logger.LogLevelDebug))

	l.Error("lost", &logger.LogContext{Error: errors.New("wrong turn")})

	require.Contains(t, b.String(), "log_context:")
	require.Contains(t, b.String(), "wrong turn")
}

func TestNewLogLevel(t *testing.T) {
	tcs := []struct {
		name string
		val  string
		want logger.LogLevel
	}{
		{"Debug", "DEBUG", logger.LogLevelDebug},
		{"Info", "INFO", logger.LogLevelInfo},
		{"Warn", "WARN", logger.LogLevelWarn},
		{"Error", "ERROR", logger.LogLevelError},
		{"Fatal", "FATAL", logger.LogLevelFatal},
		{"Zero-Value", "", logger.LogLevelUnk},
		{"Unknown", "TRACE", logger.LogLevelUnk},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, logger.NewLogLevel(tc.val))
		})
	}
}

func TestAddSkip(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	b := new(bytes.Buffer)
	l := newTestLogger(b)

	sl, ok := l.(logger.SkipLogger)
	require.True(t, ok)
	require.Equal(t, 1, sl.AddSkip(1).Skip())

	// the original is untouched.
	require.Equal(t, 0, sl.Skip())
}
