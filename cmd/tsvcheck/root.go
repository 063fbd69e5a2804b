package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/tsvcheck/internal/config"
	"github.com/JonMunkholm/tsvcheck/internal/logging"
	"github.com/JonMunkholm/tsvcheck/internal/rules"
	"github.com/spf13/cobra"
)

// errFailuresFound makes the process exit with exitFailures. It is not
// printed.
var errFailuresFound = errors.New("failures found")

type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "tsvcheck",
		Short: "Cell-level validation for tab-separated files",
		Long: `tsvcheck reads tab-separated files and reports every cell that is empty,
carries stray whitespace, is not valid UTF-8, or breaks a column rule.

Configuration comes from the environment (TSVCHECK_*, SERVER_*, LOG_*) and
an optional .env file; flags override both.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newCheckCmd(flags, stdin),
		newServeCmd(flags),
		newKindsCmd(),
	)
	return root
}

// loadConfig reads the environment, applies the logging flags, validates
// the result and installs the logger.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// loadRules returns permissive settings when path is empty.
func loadRules(path string) (*rules.Settings, error) {
	if path == "" {
		return rules.Permissive(), nil
	}
	return rules.Load(path)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errFailuresFound):
		return exitFailures
	default:
		fmt.Fprintln(stderr, "tsvcheck:", err)
		return exitError
	}
}
