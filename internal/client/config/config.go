package config

import "time"

// Config holds runtime settings for the console.
//
// Fields:
//   - ServerURL: base URL of the credential service (the /api/* endpoints
//     hang off of it).
//   - RequestTimeout: per-request HTTP timeout.
//   - StatePath: location of the local sqlite state database.
//   - Debug: enables diagnostic logging on stderr.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	StatePath      string
	Debug          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.StatePath = "console.db"
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
