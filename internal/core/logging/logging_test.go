package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reviewrider.log")

	logger, err := NewFile(path, false)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("analysis finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "analysis finished") {
		t.Errorf("log file missing info line: %s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug line written without verbose: %s", data)
	}
}

func TestNewFile_Verbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewrider.log")

	logger, err := NewFile(path, true)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	logger.Debug("restoring session")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "restoring session") {
		t.Errorf("verbose logger dropped debug line: %s", data)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
