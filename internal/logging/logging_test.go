package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithLevel(&buf, "debug")
	if err != nil {
		t.Fatalf("NewWithLevel: %v", err)
	}
	ctx := NewContext(context.Background(), l)
	FromContext(ctx).Debug("placed", "rows", 2)
	if !strings.Contains(buf.String(), "rows=2") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger without one in context")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInfoLevelDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithLevel(&buf, "info")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line leaked: %q", buf.String())
	}
}
