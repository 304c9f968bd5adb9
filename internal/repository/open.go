package repository

import (
	"context"

	"catalog-service/internal/config"
	"catalog-service/internal/database"
	"catalog-service/internal/models"
)

// Open construye el Store indicado en la configuración. El llamador debe cerrarlo.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.Store == config.StoreMemory {
		return NewMemoryRepository(WithTimeout(cfg.Mongo.Timeout)), nil
	}

	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, &models.StorageUnavailableError{Op: "connect", Err: err}
	}

	return NewProductRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection, WithTimeout(cfg.Mongo.Timeout)), nil
}
