package config

import (
	"time"

	"github.com/dmitrijs2005/osheen/internal/client/client"
	"github.com/dmitrijs2005/osheen/internal/common"
)

// Config holds runtime settings for the Osheen client.
//
// RequestTimeout bounds every backend request, including the reconciliation
// made at startup and by the watcher. CheckInterval is how often the watcher
// reconciles the session and PingInterval how often it probes backend
// reachability; zero disables the respective loop.
type Config struct {
	ServerBaseURL  string
	StorePath      string
	RequestTimeout time.Duration
	CheckInterval  time.Duration
	PingInterval   time.Duration
	LogLevel       string
	LogFormat      string

	Endpoints client.Endpoints
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:5000/api"
	c.StorePath = common.DefaultDatabaseFile
	c.RequestTimeout = 10 * time.Second
	c.CheckInterval = 5 * time.Minute
	c.PingInterval = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.Endpoints = client.DefaultEndpoints()
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
