package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFieldSnapshots(t *testing.T) {
	cases := []struct {
		field Field
		key   string
		want  interface{}
	}{
		{String("symbol", "AAPL"), "symbol", "AAPL"},
		{Strings("symbols", []string{"AAPL", "MSFT"}), "symbols", "AAPL, MSFT"},
		{Int("splits", 5), "splits", int64(5)},
		{Int64("rows", 400), "rows", int64(400)},
		{Float64("r2", 0.91), "r2", 0.91},
		{Duration("elapsed", 2 * time.Second), "elapsed", "2s"},
		{Error(errors.New("boom")), "error", "boom"},
	}
	for _, tc := range cases {
		if tc.field.key != tc.key {
			t.Fatalf("key %q, want %q", tc.field.key, tc.key)
		}
		if got := tc.field.snapshot(); got != tc.want {
			t.Fatalf("%s: snapshot %v (%T), want %v (%T)", tc.key, got, got, tc.want, tc.want)
		}
	}
}

func TestLoggerWritesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	l.Info("series loaded", String("symbol", "AAPL"), Int("bars", 400))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(b)
	for _, want := range []string{`"message":"series loaded"`, `"symbol":"AAPL"`, `"bars":400`, `"caller":"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %s: %s", want, line)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if strings.Contains(out, "dropped") {
		t.Fatalf("below-level lines written: %s", out)
	}
	if !strings.Contains(out, `"message":"kept"`) {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestLoggerRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud", Format: "json", Output: "stdout"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
