package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/itra-results/internal/filter"
	"github.com/pfrederiksen/itra-results/internal/form"
	"github.com/pfrederiksen/itra-results/internal/render"
	"github.com/pfrederiksen/itra-results/internal/storage"
)

var (
	flagFormat      string
	flagLayout      string
	flagEndpoint    string
	flagSave        bool
	flagSort        string
	flagGender      []string
	flagNationality []string
	flagCategory    []string
)

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <url>",
		Short: "Submit a race results URL and print the top runners",
		Long: `Submit a race results URL to the scrape endpoint and print the runners it returns.
Exits with status 2 when the endpoint reports a failure.`,
		Args: cobra.ExactArgs(1),
		RunE: runSubmit,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or html")
	cmd.Flags().StringVar(&flagLayout, "layout", "", "Columns to show: profile or category (overrides client.layout)")
	cmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Scrape endpoint URL (overrides client.endpoint)")
	cmd.Flags().BoolVar(&flagSave, "save", false, "Save the results and report changes since the last save")
	cmd.Flags().StringVar(&flagSort, "sort", "position", "Sort order: position, name or time")
	cmd.Flags().StringSliceVar(&flagGender, "gender", nil, "Only show these genders (comma-separated)")
	cmd.Flags().StringSliceVar(&flagNationality, "nationality", nil, "Only show these nationalities (comma-separated)")
	cmd.Flags().StringSliceVar(&flagCategory, "category", nil, "Only show these categories (comma-separated)")

	return cmd
}

func runSubmit(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatHTML {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'html')", flagFormat)
	}
	sortOrder, err := ParseSortOrder(flagSort)
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig()
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

	opts := cfg.FormOptions(log)
	page := render.NewPage(opts.Layout)
	handler := form.NewHandler(page, opts)

	pageURL := strings.TrimSpace(args[0])
	if err := handler.Submit(cmd.Context(), pageURL); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", form.Message(err))
		return &exitError{code: ExitRequestFailed, err: err}
	}

	view := page.View()
	result := &OutputResult{
		SubmittedAt: time.Now().UTC(),
		URL:         pageURL,
		Layout:      opts.Layout,
	}

	if flagSave {
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		diff, err := store.SaveResults(pageURL, opts.Layout, view.Rows)
		if err != nil {
			return fmt.Errorf("saving results: %w", err)
		}
		result.Changes = diff
	}

	f := filter.FromFlags(flagGender, flagNationality, flagCategory)
	rows := f.Apply(view.Rows)
	sortRecords(rows, sortOrder)

	result.Runners = rows
	result.RunnerCount = len(rows)
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
