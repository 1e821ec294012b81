package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
		} else {
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.want, got, "input %q", tc.input)
		}
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup("verbose")
	assert.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	base := slog.Default()
	scoped := base.With(slog.String("trace_id", "abc"))

	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx))

	// Without a logger in context, the fallback applies.
	assert.Same(t, base, FromContextOrDefault(context.Background(), base))

	// A nil context also falls back rather than panicking.
	assert.Same(t, base, FromContextOrDefault(nil, base)) //nolint:staticcheck
}
