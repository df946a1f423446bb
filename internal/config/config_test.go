package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestClientDefaults(t *testing.T) {
	cfg, err := LoadClient(newViper())
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("interval = %s, want 5s", cfg.Interval)
	}
	if cfg.URL != "http://127.0.0.1:8080" {
		t.Errorf("url = %q", cfg.URL)
	}
}

func TestClientRejectsBadValues(t *testing.T) {
	v := newViper()
	v.Set(KeyURL, "panel.local")
	if _, err := LoadClient(v); err == nil {
		t.Error("expected error for url without scheme")
	}

	v = newViper()
	v.Set(KeyInterval, "10ms")
	if _, err := LoadClient(v); err == nil {
		t.Error("expected error for tiny interval")
	}
}

func TestClientFromEnv(t *testing.T) {
	t.Setenv("PANELTOP_URL", "https://panel.example.com")
	t.Setenv("PANELTOP_INTERVAL", "2s")

	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg, err := LoadClient(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.URL != "https://panel.example.com" || cfg.Interval != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestServerConfig(t *testing.T) {
	v := newViper()
	v.Set(KeyRoot, "relative/root")
	v.Set(KeyLogLines, 0)

	cfg, err := LoadServer(v)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(cfg.Root) {
		t.Errorf("root %q not absolute", cfg.Root)
	}
	if cfg.LogLines != 50 {
		t.Errorf("log lines = %d, want 50", cfg.LogLines)
	}
	if cfg.RestartCommand != "/usr/local/bin/restart" {
		t.Errorf("restart command = %q", cfg.RestartCommand)
	}

	v.Set(KeyRoot, "")
	if _, err := LoadServer(v); err == nil {
		t.Error("expected error for empty root")
	}
}
