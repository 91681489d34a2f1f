// Package config loads runtime configuration for the Osheen client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected with -c or -config, or
//     the OSHEEN_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-s string   path of the local session store
//	-t int      request timeout (seconds)
//	-i int      session check interval (seconds, 0 disables)
//	-p int      online status check interval (seconds, 0 disables)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "server_base_url": "https://osheenoracle.example/api",
//	  "store_path": "osheen.db",
//	  "request_timeout": "10s",
//	  "check_interval": "5m",
//	  "ping_interval": "30s",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "endpoints": {
//	    "profile": "/auth/me",
//	    "login": "/auth/login",
//	    "register": "/auth/register",
//	    "logout": "/auth/logout",
//	    "health": "/health"
//	  }
//	}
package config
