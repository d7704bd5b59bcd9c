package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"task-manager/internal/core/config"
)

func TestToWriter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ToWriter(zap.New(core), zapcore.WarnLevel)

	fmt.Fprintln(w, "[db] final dsn = ****")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "[db] final dsn = ****" {
		t.Errorf("trailing newline should be trimmed, got %q", entries[0].Message)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func TestFromConfig_Rotate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(config.Log{
		Level: "info",
		JSON:  true,
		File:  config.LogFile{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("task created", zap.String("task_id", "t1"))
	cleanup()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("expected log file to contain the entry")
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := New("nonsense", true)
	defer cleanup()
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at fallback level")
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled")
	}
}
