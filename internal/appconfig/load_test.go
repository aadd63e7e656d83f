package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "http://127.0.0.1:1224/argv" {
		t.Fatalf("unexpected endpoint %q", cfg.Endpoint)
	}
	if cfg.Workspace.MaxAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", cfg.Workspace.MaxAttempts)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
endpoint: http://10.0.0.5:1224/argv
workspace:
  tab_name: BatchDOC
  max_attempts: 5
  settle_delay_ms: 250
watch:
  notify: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "http://10.0.0.5:1224/argv" {
		t.Fatalf("unexpected endpoint %q", cfg.Endpoint)
	}
	wf := cfg.Workflow()
	if wf.MaxAttempts != 5 || wf.SettleDelay != 250*time.Millisecond {
		t.Fatalf("unexpected workflow config %+v", wf)
	}
	if wf.VerifyDelay != time.Second {
		t.Fatalf("expected default verify delay, got %v", wf.VerifyDelay)
	}
	if cfg.Watch.Notify {
		t.Fatalf("expected notify disabled")
	}
	if cfg.PollInterval() != time.Second {
		t.Fatalf("expected default poll interval, got %v", cfg.PollInterval())
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 7
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRejectsInvalidEndpoint(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
endpoint: 127.0.0.1:1224/argv
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Fatalf("expected endpoint error, got %v", err)
	}
}

func TestLoadRejectsZeroAttempts(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
workspace:
  max_attempts: 0
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "max_attempts") {
		t.Fatalf("expected max_attempts error, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("UMIDOC_ENDPOINT", "http://192.168.1.10:1224/argv")
	t.Setenv("UMIDOC_WORKSPACE_MAX_ATTEMPTS", "4")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "http://192.168.1.10:1224/argv" {
		t.Fatalf("expected env endpoint, got %q", cfg.Endpoint)
	}
	if cfg.Workspace.MaxAttempts != 4 {
		t.Fatalf("expected env attempts, got %d", cfg.Workspace.MaxAttempts)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load written default: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("round trip mismatch: %+v", cfg)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
