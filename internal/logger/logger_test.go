package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"info", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", NoColor: true, Writer: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", zap.String("key", "value"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"key": "value"`)
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "error", Verbose: true, NoColor: true, Writer: &buf})
	require.NoError(t, err)

	log.Debug("details")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	ctx := WithLogger(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestTitle(t *testing.T) {
	var buf bytes.Buffer
	Title(&buf, "Trace")
	assert.Contains(t, buf.String(), "Trace")
}
