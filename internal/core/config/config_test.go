package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	wantDir := filepath.Join(home, ".config", "reviewrider")
	if cfg.Dir != wantDir {
		t.Errorf("Dir = %q, want %q", cfg.Dir, wantDir)
	}
	if cfg.DBPath != filepath.Join(wantDir, "session.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LogPath() != filepath.Join(wantDir, "reviewrider.log") {
		t.Errorf("LogPath() = %q", cfg.LogPath())
	}
	if cfg.ExportTemplate != DefaultExportTemplate {
		t.Error("ExportTemplate is not the default")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
endpoint = "https://reviews.example.com/"
timeout = "45s"
db_path = "/var/lib/reviewrider/state.db"
`)
	writeFile(t, filepath.Join(dir, "export_template.md"), "{{title}}")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Endpoint != "https://reviews.example.com" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.DBPath != "/var/lib/reviewrider/state.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ExportTemplate != "{{title}}" {
		t.Errorf("ExportTemplate = %q", cfg.ExportTemplate)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed toml", `endpoint = `, "failed to parse"},
		{"bad duration", `timeout = "soon"`, "timeout"},
		{"zero timeout", `timeout = "0s"`, "timeout must be positive"},
		{"negative timeout", `timeout = "-1m"`, "timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tt.content)

			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() succeeded for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Endpoint: " ", Timeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted an empty endpoint")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := expandHome("~/data/s.db"); got != filepath.Join(home, "data", "s.db") {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/abs/s.db"); got != "/abs/s.db" {
		t.Errorf("expandHome() = %q", got)
	}
}
