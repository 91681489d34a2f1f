package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/osheen/internal/flagx"
	"github.com/dmitrijs2005/osheen/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from an explicit zero.
type JsonConfig struct {
	ServerBaseURL  string          `json:"server_base_url"`
	StorePath      string          `json:"store_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	CheckInterval  *timex.Duration `json:"check_interval"`
	PingInterval   *timex.Duration `json:"ping_interval"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`
	Endpoints      JsonEndpoints   `json:"endpoints"`
}

type JsonEndpoints struct {
	Profile  string `json:"profile"`
	Login    string `json:"login"`
	Register string `json:"register"`
	Logout   string `json:"logout"`
	Health   string `json:"health"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c/-config or OSHEEN_CONFIG (flagx.JsonConfigFlags);
// without one nothing is loaded. Read and decode errors panic, as flag
// errors do in parseFlags.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CheckInterval != nil {
		cfg.CheckInterval = jc.CheckInterval.Duration
	}
	if jc.PingInterval != nil {
		cfg.PingInterval = jc.PingInterval.Duration
	}

	setString(&cfg.Endpoints.Profile, jc.Endpoints.Profile)
	setString(&cfg.Endpoints.Login, jc.Endpoints.Login)
	setString(&cfg.Endpoints.Register, jc.Endpoints.Register)
	setString(&cfg.Endpoints.Logout, jc.Endpoints.Logout)
	setString(&cfg.Endpoints.Health, jc.Endpoints.Health)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
