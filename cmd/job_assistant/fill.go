package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/formfill"
	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/jonathan/job-assistant/internal/schemas"
	"github.com/jonathan/job-assistant/internal/types"
)

var (
	fillProfile string
	fillHTML    string
	fillURL     string
	fillOut     string
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill an application form from a profile",
	Long: `Fill the fields of an application form from a JSON profile and print a report.

The form is either a saved HTML file (--html, the filled copy can be written with --out)
or a live page opened in headless Chrome (--url).`,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVarP(&fillProfile, "profile", "p", "", "Path to the profile JSON file (required)")
	fillCmd.Flags().StringVar(&fillHTML, "html", "", "Path to a saved application form")
	fillCmd.Flags().StringVarP(&fillURL, "url", "u", "", "URL of a live application form")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Write the filled HTML here (with --html)")

	_ = fillCmd.MarkFlagRequired("profile")
	fillCmd.MarkFlagsMutuallyExclusive("html", "url")
	fillCmd.MarkFlagsOneRequired("html", "url")

	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, _ []string) error {
	if fillOut != "" && fillHTML == "" {
		return fmt.Errorf("--out requires --html")
	}

	profile, err := loadProfile(fillProfile)
	if err != nil {
		return err
	}

	var report types.FillReport
	if fillHTML != "" {
		report, err = fillFile(profile, fillHTML, fillOut)
	} else {
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			return cfgErr
		}
		report, err = formfill.FillURL(cmd.Context(), fillURL, profile, browserTimeout(cfg.FetchTimeout), cfg.Verbose)
	}
	if err != nil {
		return err
	}
	observability.RecordFill(report.FieldsFound, report.FieldsFilled)

	observability.NewPrinter(cmd.OutOrStdout()).PrintFillReport(report)
	return nil
}

// loadProfile checks path against the profile schema, then decodes and
// validates it.
func loadProfile(path string) (*types.ApplicationProfile, error) {
	if err := schemas.ValidateFile(schemas.Profile, path); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile types.ApplicationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &profile, nil
}

func fillFile(profile *types.ApplicationProfile, htmlPath, outPath string) (types.FillReport, error) {
	src, err := os.ReadFile(htmlPath)
	if err != nil {
		return types.FillReport{}, fmt.Errorf("failed to read form: %w", err)
	}
	doc, err := formfill.NewHTMLDocument(string(src))
	if err != nil {
		return types.FillReport{}, err
	}

	report := formfill.Fill(profile, doc)

	if outPath != "" {
		html, err := doc.HTML()
		if err != nil {
			return report, err
		}
		if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
			return report, fmt.Errorf("failed to write filled form: %w", err)
		}
	}
	return report, nil
}
