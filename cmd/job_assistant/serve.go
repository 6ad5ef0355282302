package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/analysis"
	"github.com/jonathan/job-assistant/internal/config"
	"github.com/jonathan/job-assistant/internal/db"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/history"
	"github.com/jonathan/job-assistant/internal/ingestion"
	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/scheduler"
	"github.com/jonathan/job-assistant/internal/server"
	"github.com/jonathan/job-assistant/internal/stats"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing job extraction, form-fill preview, history and analysis endpoints.

Only extraction is always available. DATABASE_URL enables history and the job board,
REDIS_URL enables fast stats counters, and GEMINI_API_KEY enables /analyze and /tailor.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	deps := server.Deps{Extractor: newExtractor(cfg)}
	var recorders history.Multi

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		deps.Store = database
		recorders = append(recorders, database)

		sched := scheduler.New(database, cfg.HistoryRetentionDays, cfg.PruneSchedule)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	} else {
		log.Println("[server] DATABASE_URL not set; history and job board disabled")
	}

	if cfg.RedisURL != "" {
		rdb, err := stats.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		counter := stats.NewCounter(rdb, "")
		deps.Stats = counter
		recorders = append(recorders, counter)
	}

	if len(recorders) > 0 {
		recorder := history.Async(recorders, "history", history.DefaultTimeout)
		defer recorder.Wait()
		deps.Recorder = recorder
	}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.ConfigFromEnv(), cfg.APIKey)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Analyzer = analysis.New(client)
	} else {
		log.Println("[server] GEMINI_API_KEY not set; /analyze and /tailor disabled")
	}

	if cfg.JWT == nil {
		log.Println("[server] JWT_SECRET not set; auth disabled, history is recorded anonymously")
	}

	srv, err := server.New(server.Config{
		Port:       cfg.Port,
		CORSOrigin: cfg.CORSOrigin,
		JWT:        cfg.JWT,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// newExtractor builds the extraction pipeline from cfg, adding the headless
// browser fallback when enabled.
func newExtractor(cfg *config.Config) *ingestion.Extractor {
	opts := &ingestion.Options{
		Timeout: cfg.FetchTimeout,
		Verbose: cfg.Verbose,
	}
	if cfg.UseBrowser {
		opts.Browser = &fetch.BrowserFetcher{Timeout: browserTimeout(cfg.FetchTimeout), Verbose: cfg.Verbose}
	}
	return ingestion.New(opts)
}

// browserTimeout gives rendering twice the static fetch budget.
func browserTimeout(fetchTimeout time.Duration) time.Duration {
	if fetchTimeout <= 0 {
		fetchTimeout = config.DefaultFetchTimeout
	}
	return 2 * fetchTimeout
}
