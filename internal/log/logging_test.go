package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "trace", want: LevelTrace},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerSplitsStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	file := filepath.Join(t.TempDir(), "padmapper.log")
	logger, closers, err := newLogger(LevelTrace, &stdout, &stderr, file)
	require.NoError(t, err)

	logger.Log(t.Context(), LevelTrace, "Report sent")
	logger.Info("Engine started")
	logger.Error("Output failed")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	assert.Contains(t, stdout.String(), "level=TRACE msg=\"Report sent\"")
	assert.Contains(t, stdout.String(), "Engine started")
	assert.NotContains(t, stdout.String(), "Output failed")
	assert.Contains(t, stderr.String(), "Output failed")
	assert.NotContains(t, stderr.String(), "Engine started")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Engine started")
	assert.Contains(t, string(data), "Output failed")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, _, err := newLogger(slog.LevelInfo, &stdout, &stderr, "")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.With("component", "engine").Warn("Gate revoked")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "component=engine")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := &rawLogger{w: &buf, now: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }}

	r.Log("mouse", []byte{0x01, 0xFE, 0xFF})
	r.Log("keyboard", nil)
	assert.Equal(t, "2026/01/02 03:04:05.000 mouse report: 3 bytes, hex: 01 fe ff\n", buf.String())

	assert.NotPanics(t, func() { NewRaw(nil).Log("mouse", []byte{1}) })
}
