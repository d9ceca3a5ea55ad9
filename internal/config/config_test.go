package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Server.Addr", cfg.Server.Addr, ":8080"},
		{"Proxy.BaseURL", cfg.Proxy.BaseURL, "https://allorigins.hexlet.app/get"},
		{"Proxy.TimeoutSeconds", cfg.Proxy.TimeoutSeconds, 10},
		{"Proxy.MaxBodyBytes", cfg.Proxy.MaxBodyBytes, int64(5 << 20)},
		{"Proxy.UserAgent", cfg.Proxy.UserAgent, "rssreader/1.0"},
		{"Store.Driver", cfg.Store.Driver, "memory"},
		{"I18n.Lang", cfg.I18n.Lang, "ru"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
	}

	for _, c := range checks {
		switch want := c.want.(type) {
		case int:
			if c.got.(int) != want {
				t.Errorf("%s: got %v, want %v", c.name, c.got, want)
			}
		case int64:
			if c.got.(int64) != want {
				t.Errorf("%s: got %v, want %v", c.name, c.got, want)
			}
		case string:
			if c.got.(string) != want {
				t.Errorf("%s: got %v, want %v", c.name, c.got, want)
			}
		}
	}

	if !cfg.Proxy.CacheDisabled() {
		t.Error("cache busting should be enabled by default")
	}
	if cfg.Proxy.Timeout() != 10*time.Second {
		t.Errorf("Proxy.Timeout: got %v", cfg.Proxy.Timeout())
	}
}

func TestSetDefaults_DoesNotOverride(t *testing.T) {
	off := false
	cfg := &Config{
		Server: ServerConfig{Addr: "127.0.0.1:9000"},
		Proxy:  ProxyConfig{BaseURL: "http://proxy.local/get", TimeoutSeconds: 3, DisableCache: &off},
		Store:  StoreConfig{Driver: "SQLite"},
		I18n:   I18nConfig{Lang: "en"},
		Log:    LogConfig{Level: "debug", Format: "json"},
	}
	setDefaults(cfg)

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr should not be overridden: got %s", cfg.Server.Addr)
	}
	if cfg.Proxy.BaseURL != "http://proxy.local/get" {
		t.Errorf("Proxy.BaseURL should not be overridden: got %s", cfg.Proxy.BaseURL)
	}
	if cfg.Proxy.TimeoutSeconds != 3 {
		t.Errorf("Proxy.TimeoutSeconds should not be overridden: got %d", cfg.Proxy.TimeoutSeconds)
	}
	if cfg.Proxy.CacheDisabled() {
		t.Error("explicit disable_cache: false should be kept")
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver should be lowercased: got %s", cfg.Store.Driver)
	}
	if cfg.I18n.Lang != "en" {
		t.Errorf("I18n.Lang should not be overridden: got %s", cfg.I18n.Lang)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log should not be overridden: got %+v", cfg.Log)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	yamlContent := `
server:
  addr: ":9090"
proxy:
  base_url: http://localhost:3000/get
  timeout_seconds: 5
  disable_cache: false
store:
  driver: sqlite
i18n:
  lang: zh
log:
  level: debug
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr: got %q", cfg.Server.Addr)
	}
	if cfg.Proxy.BaseURL != "http://localhost:3000/get" {
		t.Errorf("Proxy.BaseURL: got %q", cfg.Proxy.BaseURL)
	}
	if cfg.Proxy.CacheDisabled() {
		t.Error("Proxy.DisableCache: want false")
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver: got %q", cfg.Store.Driver)
	}
	if cfg.I18n.Lang != "zh" {
		t.Errorf("I18n.Lang: got %q", cfg.I18n.Lang)
	}
	// 未设置的字段应使用默认值
	if cfg.Proxy.MaxBodyBytes != 5<<20 {
		t.Errorf("Proxy.MaxBodyBytes should default, got %d", cfg.Proxy.MaxBodyBytes)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_PROXY_URL", "http://relay.example/get")

	yamlContent := `
proxy:
  base_url: "${TEST_PROXY_URL}"
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Proxy.BaseURL != "http://relay.example/get" {
		t.Errorf("expected env var expansion, got %q", cfg.Proxy.BaseURL)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte("store:\n  driver: redis\n"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if _, err := Load(tmpFile); err == nil {
		t.Fatal("expected error for unsupported store driver")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("expected default driver, got %q", cfg.Store.Driver)
	}
}
