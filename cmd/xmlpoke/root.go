package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xmlpoke/cmd/xmlpoke/opts"
	"github.com/walteh/xmlpoke/pkg/config"
	"github.com/walteh/xmlpoke/pkg/userlog"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
)

// initRootOpts loads shared dependencies once flags are parsed
func initRootOpts(cmd *cobra.Command, ro *opts.RootOpts) error {
	setupLogging()

	ctx := zerolog.DefaultContextLogger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	// Create user logger
	ro.UserLogger = userlog.NewUserLogger(ctx)

	// Load config
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	ro.Config = cfg

	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".xmlpoke.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
