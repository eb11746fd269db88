package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/itra-results/internal/storage"
)

var flagDelete string

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved result snapshots",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagDelete, "delete", "", "Delete the snapshot saved for this race URL")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	w := cmd.OutOrStdout()

	if pageURL := strings.TrimSpace(flagDelete); pageURL != "" {
		if err := store.Delete(pageURL); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no saved results for %s", pageURL)
			}
			return err
		}
		fmt.Fprintf(w, "Deleted saved results for %s\n", pageURL)
		return nil
	}

	snapshots, err := store.List()
	if err != nil {
		return err
	}

	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(w, "No saved results in %s.\n", store.Dir())
		return nil
	}

	for _, s := range snapshots {
		fmt.Fprintf(w, "%s  %-8s  %d runners  %s\n", s.UpdatedAt, s.Layout, len(s.Records), s.URL)
	}
	fmt.Fprintf(w, "\nTotal: %d snapshots\n", len(snapshots))
	return nil
}
