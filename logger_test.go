package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_HandlerFollowsTerminal(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, slog.LevelInfo).Info("hello", "k", 1)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
	buf.Reset()
	newLogger(&buf, true, slog.LevelInfo).Info("hello", "k", 1)
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, slog.LevelInfo).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record should be filtered at info level")
	}
	newLogger(&buf, false, slog.LevelDebug).Debug("shown")
	if buf.Len() == 0 {
		t.Fatalf("debug record expected at debug level")
	}
}
