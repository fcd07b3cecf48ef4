package main

import (
	"context"
	"errors"
	"excursions/config"
	"excursions/di"
	"excursions/shared/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.UseJSONOutput(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	defer func() {
		if err := worker.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close worker")
		}
	}()

	if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Worker stopped unexpectedly")

		return
	}

	log.Info().Msg("Worker stopped")
}
