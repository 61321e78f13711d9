package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerLine(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, false, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.With("module", "egl").Info("display initialized", "version", "1.5")

	line := out.String()
	if !strings.HasSuffix(line, "INFO [egl] display initialized version=1.5\n") {
		t.Errorf("unexpected line %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Errorf("colour codes in uncoloured output: %q", line)
	}
}

func TestHandlerLevel(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, true, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("hidden")
	if out.Len() != 0 {
		t.Fatalf("info record printed at warn level: %q", out.String())
	}

	logger.Warn("shown")
	if !strings.Contains(out.String(), "shown") {
		t.Errorf("warn record missing: %q", out.String())
	}
	if !strings.Contains(out.String(), "\033[93m") {
		t.Errorf("expected coloured level: %q", out.String())
	}
}

func TestSetup(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	var out bytes.Buffer
	if err := Setup(&out, false, "debug"); err != nil {
		t.Fatal(err)
	}
	slog.Debug("hello")
	if !strings.Contains(out.String(), "DEBUG hello") {
		t.Errorf("got %q", out.String())
	}

	if err := Setup(&out, false, "loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
