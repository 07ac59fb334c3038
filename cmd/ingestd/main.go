// Command ingestd is the long-running ingestion scheduler. It polls the
// inbox directory for chunk CSVs, validates and appends them to the corpus,
// and moves processed files to the done directory. Configuration comes from
// the config file and environment; there are no flags.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/policypulse/policypulse/internal/adapters/driven/storage/sqlite"
	"github.com/policypulse/policypulse/internal/config"
	"github.com/policypulse/policypulse/internal/core/services"
	"github.com/policypulse/policypulse/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("POLICYPULSE_CONFIG"))
	if err != nil {
		errLog := logger.New("error")
		errLog.Fatal().Err(err).Msg("loading configuration")
	}
	log := logger.New(cfg.LogLevel)

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("opening store")
	}
	defer store.Close()

	inbox, done := cfg.ResolveDirs()
	scheduler := services.NewIngestService(
		store.ChunkStore(),
		store.IngestLogStore(),
		log,
		inbox, done,
		cfg.PollInterval(),
		cfg.Ingest.Watch,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("scheduler stopped")
	}
}
