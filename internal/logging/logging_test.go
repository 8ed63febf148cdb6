package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewJSONWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	l.With(String("component", "chart")).Debug(context.Background(), "draw", Int("countries", 3), Err(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{`"msg":"draw"`, `"component":"chart"`, `"countries":3`, `"error":"boom"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %q", want, out)
		}
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	l.Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestOrNoop(t *testing.T) {
	if OrNoop(nil) == nil {
		t.Fatal("expected noop logger")
	}
	// must not panic
	OrNoop(nil).With(String("a", "b")).Error(context.Background(), "x")
}
