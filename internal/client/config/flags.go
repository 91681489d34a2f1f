package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/osheen/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only -a, -s, -t, -i, -p and -l are looked at; os.Args is filtered with
// flagx.FilterArgs so flags owned by other loaders do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-i", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the local session store")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	checkInterval := fs.Int("i", int(cfg.CheckInterval.Seconds()), "session check interval (in seconds)")
	pingInterval := fs.Int("p", int(cfg.PingInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// durations are only replaced when given, so sub-second values loaded
	// from JSON survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "i":
			cfg.CheckInterval = time.Duration(*checkInterval) * time.Second
		case "p":
			cfg.PingInterval = time.Duration(*pingInterval) * time.Second
		}
	})
}
