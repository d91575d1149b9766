package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qprompt.log")
	if err := Init(path, true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Debug("key handled", "key", "ArrowUp")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "logger initialized") {
		t.Fatalf("log missing init line: %q", out)
	}
	if !strings.Contains(out, "key handled") || !strings.Contains(out, "ArrowUp") {
		t.Fatalf("log missing debug line: %q", out)
	}
}

func TestNamedUsesInstalledLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	UseLogger(zap.New(core))
	t.Cleanup(func() { L, S = nil, nil })

	Named("prompt").Infow("submitted", "line", "look")
	Warn("dropped")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].LoggerName != "prompt" {
		t.Fatalf("logger name = %q, want %q", entries[0].LoggerName, "prompt")
	}
	if entries[1].Message != "dropped" {
		t.Fatalf("message = %q, want %q", entries[1].Message, "dropped")
	}
}

func TestHelpersNoopBeforeInit(t *testing.T) {
	L, S = nil, nil
	Info("ignored")
	Named("x").Infow("ignored")
}
