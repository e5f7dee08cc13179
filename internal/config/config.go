package config

import "seopanel-go/pkg/logger"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Prefs   PrefsConfig   `mapstructure:"prefs"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Logger  logger.Config `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// BackendConfig describes the external SEO backend the panel talks to.
// Every request carries the caller's session cookie; the timeout is the
// explicit per-request deadline (the original relied on transport
// defaults, which left slow audits hanging).
type BackendConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	TimeoutS int    `mapstructure:"timeout_s"`
}

type PrefsConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// AuditConfig bounds outbound calls to the page-quality audit endpoints,
// which are the most quota-sensitive backend resources.
type AuditConfig struct {
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
