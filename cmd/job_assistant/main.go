// Package main provides the job-assistant CLI: the HTTP API server plus
// one-shot extraction, platform detection, form-fill and analysis commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "job_assistant",
	Short:         "Job posting extraction and application form-fill assistant",
	Long:          "job_assistant extracts structured job data from posting pages on the major applicant-tracking platforms, fills application forms from a profile, and serves both over a REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional JSON config file (environment variables take precedence)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress")
}

// loadConfig reads the environment and the --config overlay. The --verbose
// flag turns on verbose mode even when VERBOSE is unset.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Verbose = cfg.Verbose || verbose
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
