package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(Config{Level: level, Output: buf, Prefix: "test"})
	l.sink.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] test: shown 1") {
		t.Errorf("missing warn line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] test: shown 2") {
		t.Errorf("missing error line in %q", out)
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug).WithComponent("bus").WithField("a", 1)

	l.Info("hello")

	want := "2024-01-02T03:04:05.000 [INFO] test: hello {a=1, component=bus}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLogger_DerivedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := newTestLogger(&buf, LevelInfo)
	child := root.WithComponent("plugin")

	root.SetLevel(LevelError)
	child.Warn("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected child to honor root level, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	var nilLogger *Logger
	nilLogger.Info("nil logger must not panic")
}
