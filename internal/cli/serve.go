package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/itra-results/internal/runner"
	"github.com/pfrederiksen/itra-results/internal/scraper"
	"github.com/pfrederiksen/itra-results/internal/server"
)

var (
	flagAddr    string
	flagBrowser bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the results page and the scrape endpoint",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&flagBrowser, "browser", false, "Fetch pages through headless Chrome")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if flagBrowser {
		cfg.Scraper.Browser.Enabled = true
	}

	layout, err := runner.ParseLayout(cfg.Client.Layout)
	if err != nil {
		return err
	}

	sc := scraper.New(cfg.ScraperOptions(log))
	srv := server.New(server.Options{
		Addr:            cfg.Server.Addr,
		BaseURL:         cfg.Server.BaseURL,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Layout:          layout,
		Logger:          log,
	}, sc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
