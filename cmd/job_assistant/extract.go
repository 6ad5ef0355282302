package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/jonathan/job-assistant/internal/types"
)

var (
	extractJSON        bool
	extractBrowser     bool
	extractTimeout     time.Duration
	extractConcurrency int
)

var extractCmd = &cobra.Command{
	Use:   "extract URL [URL...]",
	Short: "Extract job data from one or more posting URLs",
	Long:  "Fetch each posting URL, detect its platform and print the extracted job data. URLs are fetched concurrently; one failure does not stop the others.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print results as JSON")
	extractCmd.Flags().BoolVar(&extractBrowser, "browser", false, "Fall back to headless Chrome when the static page has no job data")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 0, "Per-page fetch timeout (overrides FETCH_TIMEOUT_SECONDS)")
	extractCmd.Flags().IntVar(&extractConcurrency, "concurrency", ingestion.DefaultConcurrency, "Maximum pages fetched at once")
	rootCmd.AddCommand(extractCmd)
}

// extractResult is the JSON shape printed per URL.
type extractResult struct {
	URL     string            `json:"url"`
	Success bool              `json:"success"`
	JobData *types.JobPosting `json:"jobData,omitempty"`
	Error   string            `json:"error,omitempty"`
	Kind    string            `json:"kind,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if extractTimeout > 0 {
		cfg.FetchTimeout = extractTimeout
	}
	cfg.UseBrowser = cfg.UseBrowser || extractBrowser

	outcomes := newExtractor(cfg).ExtractMany(cmd.Context(), args, extractConcurrency)

	failed := 0
	results := make([]extractResult, 0, len(outcomes))
	for _, o := range outcomes {
		r := extractResult{URL: o.URL, Success: o.Err == nil, JobData: o.Job}
		if o.Err != nil {
			failed++
			r.Error = ingestion.UserMessage(o.Err)
			r.Kind = string(ingestion.KindOf(o.Err))
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if extractJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printer := observability.NewPrinter(out)
		for _, r := range results {
			if !r.Success {
				fmt.Fprintf(out, "✗ %s: %s\n", r.URL, r.Error)
				continue
			}
			printer.PrintJobPosting(r.JobData)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d extractions failed", failed, len(outcomes))
	}
	return nil
}
