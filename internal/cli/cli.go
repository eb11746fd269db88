package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/itra-results/internal/config"
	"github.com/pfrederiksen/itra-results/internal/logger"
)

const (
	ExitSuccess       = 0
	ExitError         = 1
	ExitRequestFailed = 2
)

// Version is reported by --version
var Version = "dev"

var (
	flagConfig   string
	flagLogLevel string
	flagVerbose  bool
)

// exitError carries a specific exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "itra-results",
		Short: "Fetch the top runners of a trail race",
		Long: `A tool to fetch the top finishers of a trail race results page.
Run the server with 'serve', then submit race URLs from the browser,
the terminal UI ('tui'), or the command line ('submit').`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.config/itra-results/config.yaml)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newServeCmd(),
		newSubmitCmd(),
		newTUICmd(),
		newProfileCmd(),
		newHistoryCmd(),
	)

	return cmd
}

// loadConfig reads the config file and environment, then applies the global flags
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagVerbose {
		cfg.Logging.Level = string(logger.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log := cfg.NewLogger()
	logger.SetDefault(log)
	return cfg, log, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
