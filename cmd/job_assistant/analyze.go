package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/analysis"
	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/observability"
)

var (
	analyzeFile   string
	analyzeURL    string
	analyzeResume string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a job description and optionally tailor a resume to it",
	Long: `Send a job description to Gemini for keyword analysis. The description comes from a
text file (--file) or is extracted from a posting URL (--url). With --resume the resume
is also rewritten toward the posting. Requires GEMINI_API_KEY.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to a job description text file")
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "Posting URL to extract the description from")
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to a plain-text resume to tailor")

	analyzeCmd.MarkFlagsMutuallyExclusive("file", "url")
	analyzeCmd.MarkFlagsOneRequired("file", "url")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	var description string
	if analyzeFile != "" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return fmt.Errorf("failed to read description: %w", err)
		}
		description = string(data)
	} else {
		job, err := newExtractor(cfg).ExtractFromURL(cmd.Context(), analyzeURL)
		if err != nil {
			return err
		}
		description = job.Description
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("job description is empty")
	}

	var resume string
	if analyzeResume != "" {
		data, err := os.ReadFile(analyzeResume)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		resume = string(data)
	}

	client, err := llm.NewClient(cmd.Context(), llm.ConfigFromEnv(), cfg.APIKey)
	if err != nil {
		return err
	}
	defer client.Close()
	analyzer := analysis.New(client)

	result, err := analyzer.Analyze(cmd.Context(), description)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(result)

	if resume == "" {
		return nil
	}
	tailored, err := analyzer.Tailor(cmd.Context(), resume, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", tailored)
	return nil
}
