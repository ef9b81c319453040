package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		want    string
	}{
		{"info passes at info", log.InfoLevel, func(l *log.Logger) { l.Info("pipe resolved") }, "pipe resolved"},
		{"debug dropped at info", log.InfoLevel, func(l *log.Logger) { l.Debug("processing pipe") }, ""},
		{"debug passes at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("processing pipe") }, "processing pipe"},
		{"warn passes at info", log.InfoLevel, func(l *log.Logger) { l.Warn("cache unavailable") }, "cache unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			got := buf.String()
			if tt.want == "" && got != "" {
				t.Errorf("unexpected log output %q", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("log output %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("embedding computed")

	out := buf.String()
	if !strings.Contains(out, "embedding computed") {
		t.Errorf("progress output %q does not contain the message", out)
	}
	// Elapsed duration is appended in parentheses.
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("progress output %q carries no duration", out)
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Fatal("loggerFromContext did not return the attached logger")
	}

	loggerFromContext(ctx).Info("document loaded")
	if buf.Len() == 0 {
		t.Error("retrieved logger should write to the original buffer")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to a default logger")
	}
}
