package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{" trace ", LevelTrace},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLoggerFiltersAndLabelsTrace(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("debug", &buf)
	log.Log(context.Background(), LevelTrace, "hidden")
	log.Debug("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("trace record written at debug level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug record missing: %q", buf.String())
	}

	buf.Reset()
	log = NewLogger("trace", &buf)
	log.Log(context.Background(), LevelTrace, "detail")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("trace level not labelled: %q", buf.String())
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	l := slog.Default()
	if OrDiscard(l) != l {
		t.Error("OrDiscard replaced a non-nil logger")
	}
}
