// Command seed reemplaza el catálogo con los productos de ejemplo, ejecuta
// las consultas de demostración y aplica una actualización de stock.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"catalog-service/internal/config"
	"catalog-service/internal/logger"
	"catalog-service/internal/repository"
	"catalog-service/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Env)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
	log.Info().Msg("seed completed")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("store close failed")
		}
	}()

	products, err := seed.Run(ctx, store)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(products)).Msg("sample catalog inserted")

	report, err := seed.BuildReport(ctx, store)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	report.Log()

	_, err = seed.DemoStockUpdate(ctx, store)
	return err
}
