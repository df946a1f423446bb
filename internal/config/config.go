// Package config maps viper keys onto the settings each command needs.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. PANELTOP_URL.
const EnvPrefix = "PANELTOP"

// Viper keys.
const (
	KeyURL            = "url"
	KeyInterval       = "interval"
	KeyTimeout        = "timeout"
	KeyToken          = "token"
	KeyAddr           = "addr"
	KeyRoot           = "root"
	KeyAppsDir        = "apps_dir"
	KeyLogFile        = "panel_log"
	KeyLogLines       = "log_lines"
	KeyRestartCommand = "restart_command"
	KeyCacheTTL       = "cache_ttl"
	KeyAuthSecret     = "auth_secret"
	KeyStreamInterval = "stream_interval"
	KeyLogLevel       = "log.level"
	KeyLogOutput      = "log.file"
)

// Defaults for keys that have one.
const (
	DefaultURL            = "http://127.0.0.1:8080"
	DefaultInterval       = 5 * time.Second
	DefaultTimeout        = 10 * time.Second
	DefaultAddr           = ":8080"
	DefaultRoot           = "/home/qynix/public_html"
	DefaultLogLines       = 50
	DefaultRestartCommand = "/usr/local/bin/restart"
	DefaultCacheTTL       = 30 * time.Second
	DefaultStreamInterval = 5 * time.Second
	DefaultLogLevel       = "info"
)

// Client holds the dashboard settings.
type Client struct {
	URL      string
	Interval time.Duration
	Timeout  time.Duration
	Token    string
}

// Server holds the status server settings.
type Server struct {
	Addr           string
	Root           string
	AppsDir        string
	LogFile        string
	LogLines       int
	RestartCommand string
	CacheTTL       time.Duration
	AuthSecret     string
	StreamInterval time.Duration
}

// Log configures paneltop's own logging, not the panel log it serves.
type Log struct {
	Level string
	File  string
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyURL, DefaultURL)
	v.SetDefault(KeyInterval, DefaultInterval)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyAddr, DefaultAddr)
	v.SetDefault(KeyRoot, DefaultRoot)
	v.SetDefault(KeyLogLines, DefaultLogLines)
	v.SetDefault(KeyRestartCommand, DefaultRestartCommand)
	v.SetDefault(KeyCacheTTL, DefaultCacheTTL)
	v.SetDefault(KeyStreamInterval, DefaultStreamInterval)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
}

func LoadClient(v *viper.Viper) (Client, error) {
	cfg := Client{
		URL:      strings.TrimSpace(v.GetString(KeyURL)),
		Interval: v.GetDuration(KeyInterval),
		Timeout:  v.GetDuration(KeyTimeout),
		Token:    v.GetString(KeyToken),
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Client{}, fmt.Errorf("invalid url %q: want http(s)://host[:port]", cfg.URL)
	}
	if cfg.Interval < 100*time.Millisecond {
		return Client{}, fmt.Errorf("interval %s is too short", cfg.Interval)
	}
	if cfg.Timeout <= 0 {
		return Client{}, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}

func LoadServer(v *viper.Viper) (Server, error) {
	cfg := Server{
		Addr:           v.GetString(KeyAddr),
		Root:           v.GetString(KeyRoot),
		AppsDir:        v.GetString(KeyAppsDir),
		LogFile:        v.GetString(KeyLogFile),
		LogLines:       v.GetInt(KeyLogLines),
		RestartCommand: v.GetString(KeyRestartCommand),
		CacheTTL:       v.GetDuration(KeyCacheTTL),
		AuthSecret:     v.GetString(KeyAuthSecret),
		StreamInterval: v.GetDuration(KeyStreamInterval),
	}

	if cfg.Root == "" {
		return Server{}, fmt.Errorf("root must be set")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return Server{}, fmt.Errorf("failed to resolve root: %w", err)
	}
	cfg.Root = root
	if cfg.LogLines <= 0 {
		cfg.LogLines = DefaultLogLines
	}
	return cfg, nil
}

func LoadLog(v *viper.Viper) Log {
	return Log{
		Level: v.GetString(KeyLogLevel),
		File:  v.GetString(KeyLogOutput),
	}
}
