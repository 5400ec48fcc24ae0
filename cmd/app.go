// Package cmd implements the CLI application to plot the P&L of an options
// portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&symbolsCmd{}, "positions")
	c.Register(&legsCmd{}, "positions")
	c.Register(&plotCmd{}, "positions")

	c.Register(&priceCmd{}, "pricing")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", DefaultConfigPath(), "Path to the TOML configuration file. A missing file is ignored.")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error). Overrides the configuration and "+LogLevelEnv+".")

var (
	appOnce   sync.Once
	appConfig *Config
	appLogger zerolog.Logger
	appErr    error
)

// loadApp loads the configuration and creates the logger, once.
func loadApp() (*Config, zerolog.Logger, error) {
	appOnce.Do(func() {
		appConfig, appErr = LoadConfig(*configFile)
		if appErr != nil {
			appLogger = NewLogger("")
			return
		}
		if *logLevel != "" {
			appConfig.Logging.Level = *logLevel
		}
		appLogger = NewLogger(appConfig.Logging.Level)
		appLogger.Debug().Str("config", *configFile).Msg("configuration loaded")
	})
	return appConfig, appLogger, appErr
}

// mustLoadApp is loadApp for Execute methods: it reports the error on stderr.
func mustLoadApp() (*Config, zerolog.Logger, bool) {
	cfg, log, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, log, false
	}
	return cfg, log, true
}
