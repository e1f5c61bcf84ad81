// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad covers a valid file, invalid JSON and a missing explicit path.
func TestLoad(t *testing.T) {
	validConfig := `{
        "serverName": "ops-tools",
        "integrations": ["stripe", "github"],
        "logLevel": "DEBUG",
        "exposeSchemas": true
    }`
	path := writeConfig(t, "config.json", validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected config path %s, got %s", path, cfg.ConfigPath)
	}
	if cfg.Name() != "ops-tools" {
		t.Fatalf("expected server name ops-tools, got %s", cfg.Name())
	}
	if cfg.Version() != "1.0.0" {
		t.Fatalf("expected default version 1.0.0, got %s", cfg.Version())
	}
	if got := strings.Join(cfg.IntegrationNames(), ","); got != "stripe,github" {
		t.Fatalf("expected integrations stripe,github, got %s", got)
	}
	if cfg.Level() != "debug" {
		t.Fatalf("expected level debug, got %s", cfg.Level())
	}
	if !cfg.ExposeSchemas {
		t.Fatal("expected exposeSchemas true")
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected default request timeout of 30s, got %v", cfg.RequestTimeout())
	}

	invalid := writeConfig(t, "broken.json", `{ "serverName": `)
	if _, err := Load(invalid); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.json")); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestLoadDefaultPathIsOptional(t *testing.T) {
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Fatalf("expected no config path, got %s", cfg.ConfigPath)
	}
	if cfg.Name() != "toolbelt" || cfg.Level() != "info" || cfg.LogFilePath() != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.json", `{"logLevel": "warn", "requestTimeout": 5}`)
	t.Setenv("TOOLBELT_LOG_LEVEL", "error")
	t.Setenv("TOOLBELT_INTEGRATIONS", "notion, resend")
	t.Setenv("TOOLBELT_METRICS_ADDR", ":9464")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Level() != "error" {
		t.Fatalf("expected env level error, got %s", cfg.Level())
	}
	if got := strings.Join(cfg.IntegrationNames(), ","); got != "notion,resend" {
		t.Fatalf("expected notion,resend, got %s", got)
	}
	if cfg.MetricsAddr != ":9464" {
		t.Fatalf("expected metrics addr :9464, got %s", cfg.MetricsAddr)
	}
	if cfg.RequestTimeout() != 5*time.Second {
		t.Fatalf("expected file timeout 5s, got %v", cfg.RequestTimeout())
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, Config{ConfigPath: "config/config.json", Integrations: []string{"mux"}})

	out := buf.String()
	for _, want := range []string{
		"Config file: config/config.json",
		"Integrations:    mux",
		"Log File:        (stderr only)",
		"Metrics Addr:    (disabled)",
		"Request Timeout: 30s",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %s", want, out)
		}
	}
}
