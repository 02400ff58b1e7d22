// Standalone fulfillment worker. Runs the same order state machine the
// API runs in-process; deploy one or the other against a shared
// database, not both.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reelboost/reelboost-api/internal/config"
	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/pkg/database"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	fulfiller := order.NewFulfiller(order.NewRepository(db), nil, order.FulfillerConfig{
		Interval:        cfg.FulfillmentInterval,
		ProcessingDelay: cfg.OrderProcessingDelay,
		CompletionDelay: cfg.OrderCompletionDelay,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fulfiller.Run(ctx)
}
