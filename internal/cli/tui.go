package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/itra-results/internal/logger"
	"github.com/pfrederiksen/itra-results/internal/tui"
)

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal form",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	cmd.Flags().StringVar(&flagLayout, "layout", "", "Columns to show: profile or category (overrides client.layout)")
	cmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Scrape endpoint URL (overrides client.endpoint)")

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if flagLayout != "" {
		cfg.Client.Layout = flagLayout
	}
	if flagEndpoint != "" {
		cfg.Client.Endpoint = flagEndpoint
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Log lines would corrupt the alternate screen
	return tui.Run(ctx, cfg.FormOptions(logger.Discard()))
}
