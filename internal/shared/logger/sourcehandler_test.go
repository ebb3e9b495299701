package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		from       slog.Level
		wantSource bool
	}{
		{name: "info below threshold", level: slog.LevelInfo, from: slog.LevelWarn, wantSource: false},
		{name: "warn at threshold", level: slog.LevelWarn, from: slog.LevelWarn, wantSource: true},
		{name: "error above threshold", level: slog.LevelError, from: slog.LevelWarn, wantSource: true},
		{name: "debug threshold covers info", level: slog.LevelInfo, from: slog.LevelDebug, wantSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewSourceHandler(base, tt.from))

			log.Log(context.Background(), tt.level, "notification sent")

			out := buf.String()
			assert.Contains(t, out, "notification sent")
			assert.Equal(t, tt.wantSource, strings.Contains(out, "source="), out)
		})
	}
}

func TestSourceHandler_WithAttrsKeepsThreshold(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewSourceHandler(base, slog.LevelWarn)).With("component", "mailer")

	log.Warn("smtp slow")

	out := buf.String()
	assert.Contains(t, out, "component=mailer")
	assert.Contains(t, out, "source=")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
