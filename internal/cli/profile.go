package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/itra-results/internal/scraper"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <url>",
		Short: "Show a runner's name and ITRA performance index",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runProfile(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	sc := scraper.New(cfg.ScraperOptions(log))
	profile, err := sc.FetchProfile(cmd.Context(), strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(profile)
	}

	fmt.Fprintf(w, "Runner:            %s\n", profile.Name)
	fmt.Fprintf(w, "Performance Index: %s\n", profile.PerformanceIndex)
	return nil
}
