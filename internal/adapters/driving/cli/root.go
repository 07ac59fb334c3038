// Package cli implements the policypulse command line interface.
// Commands talk to the core only through driving ports; wiring happens once
// in the root command's PersistentPreRunE.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/policypulse/policypulse/internal/adapters/driven/llm/groq"
	"github.com/policypulse/policypulse/internal/adapters/driven/pagesource/plaintext"
	"github.com/policypulse/policypulse/internal/adapters/driven/storage/sqlite"
	"github.com/policypulse/policypulse/internal/config"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
	"github.com/policypulse/policypulse/internal/core/ports/driving"
	"github.com/policypulse/policypulse/internal/core/services"
	"github.com/policypulse/policypulse/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Package-level services, wired by initServices before any command runs.
var (
	cfg   config.Config
	log   zerolog.Logger
	store *sqlite.Store

	retrievalService driving.RetrievalService
	scenarioRunner   driving.ScenarioRunner
	ingestService    driving.IngestService
	extractService   driving.ExtractService
	answerService    driven.AnswerService
)

var cfgPath string

// servicesWired short-circuits initServices when tests inject mocks.
var servicesWired bool

var rootCmd = &cobra.Command{
	Use:   "policypulse",
	Short: "Keyword retrieval over campus policy documents",
	Long: `PolicyPulse answers questions against a corpus of chunked policy
documents using keyword-scored retrieval, with versioned telemetry,
scenario comparison and an idempotent CSV ingestion pipeline.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
}

// Execute runs the CLI and tears down shared resources afterwards.
func Execute() error {
	defer func() {
		if store != nil {
			store.Close()
		}
		if answerService != nil {
			answerService.Close()
		}
	}()
	return rootCmd.Execute()
}

// initServices wires adapters and services from the loaded configuration.
// Commands that need no storage (version, help, completion) skip it.
func initServices(cmd *cobra.Command, _ []string) error {
	if servicesWired {
		return nil
	}
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}
	log = logger.New(cfg.LogLevel)

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	if cfg.Groq.APIKey != "" {
		answerService, err = groq.NewAnswerService(groq.Config{
			APIKey:  cfg.Groq.APIKey,
			BaseURL: cfg.Groq.BaseURL,
			Model:   cfg.Groq.Model,
		})
		if err != nil {
			return fmt.Errorf("configuring answer service: %w", err)
		}
	}

	retrieval := services.NewRetrievalService(
		store.ChunkStore(),
		store.FeatureStore(),
		store.EvalStore(),
		answerService,
		log,
		cfg.CacheTTL(),
		cfg.Retrieval.MaxKeywords,
	)
	retrievalService = retrieval
	scenarioRunner = services.NewScenarioService(retrieval, log)

	inbox, done := cfg.ResolveDirs()
	ingestService = services.NewIngestService(
		store.ChunkStore(),
		store.IngestLogStore(),
		log,
		inbox, done,
		cfg.PollInterval(),
		cfg.Ingest.Watch,
	)
	extractService = services.NewExtractService(
		[]driven.PageSource{plaintext.NewSource()},
		log,
		inbox,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)

	servicesWired = true
	return nil
}
