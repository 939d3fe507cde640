package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(LogPath(configDir))); os.IsNotExist(err) {
		t.Errorf("Log directory was not created under %s", configDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestWarningsReachLogFile(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Warn("remote read failed", "error", "connection refused")
	Debug("should be filtered")

	data, err := os.ReadFile(LogPath(configDir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "remote read failed") {
		t.Errorf("log file missing warning, got: %s", out)
	}
	if strings.Contains(out, "should be filtered") {
		t.Errorf("debug message written at warn level: %s", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/cfg")
	want := filepath.Join("/tmp/cfg", "logs", "clientmgr.log")
	if got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestInitLevelFromSettings(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir, Level: "Info"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Info("client saved", "id", "42")

	data, err := os.ReadFile(LogPath(configDir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "client saved") {
		t.Errorf("info entry missing at info level, got: %s", data)
	}
}

func TestInitUnknownLevelFallsBackToWarn(t *testing.T) {
	configDir := t.TempDir()
	err := Init(Config{ConfigDir: configDir, Level: "chatty"})
	if err == nil {
		t.Fatal("Init() accepted an unknown level")
	}
	if Logger == nil {
		t.Fatal("Logger should still be usable after a level error")
	}

	Info("dropped")
	Warn("kept")

	data, readErr := os.ReadFile(LogPath(configDir))
	if readErr != nil {
		t.Fatalf("failed to read log file: %v", readErr)
	}
	out := string(data)
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("unexpected log contents at fallback level: %s", out)
	}
}

func TestDebugMirrorsToStderr(t *testing.T) {
	var stderr bytes.Buffer
	if err := Init(Config{ConfigDir: t.TempDir(), Debug: true, Level: "error", Stderr: &stderr}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Debug("resolving identity")

	if !strings.Contains(stderr.String(), "resolving identity") {
		t.Errorf("debug entry not mirrored, got: %q", stderr.String())
	}
}
