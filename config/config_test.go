package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	content := `
webserver:
  port: "8081"
backend:
  base_url: "http://api.internal:8000/"
  blog_display: 20
redis:
  enabled: true
  address: "redis:6379"
features:
  real_trend_chart: false
logging:
  level: debug
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}

	if cfg.WebServer.Port != "8081" {
		t.Errorf("Expected port 8081, got %s", cfg.WebServer.Port)
	}
	if cfg.Backend.BaseURL != "http://api.internal:8000" {
		t.Errorf("Expected trailing slash trimmed, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.BlogDisplay != 20 {
		t.Errorf("Expected blog_display 20, got %d", cfg.Backend.BlogDisplay)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Address != "redis:6379" {
		t.Errorf("Unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Features.RealTrendChart {
		t.Error("Expected real_trend_chart to be disabled")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}

	// Untouched keys keep their defaults
	if cfg.Backend.ProxyTimeout != 10 {
		t.Errorf("Expected default proxy_timeout 10, got %d", cfg.Backend.ProxyTimeout)
	}
	if cfg.Session.CookieName != "trend_session" {
		t.Errorf("Expected default cookie name, got %s", cfg.Session.CookieName)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	t.Setenv("TRENDWEB_BACKEND_BASE_URL", "http://env-backend:9000")
	t.Setenv("TRENDWEB_BACKEND_BLOG_DISPLAY", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig without config.yaml should fall back to defaults: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env-backend:9000" {
		t.Errorf("Expected env base url, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.BlogDisplay != 5 {
		t.Errorf("Expected env blog_display 5, got %d", cfg.Backend.BlogDisplay)
	}
	if cfg.WebServer.Port != "3000" {
		t.Errorf("Expected default port 3000, got %s", cfg.WebServer.Port)
	}
}
