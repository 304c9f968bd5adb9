package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"catalog-service/internal/models"
)

// classify traduce los errores del driver a los tipos de error del catálogo.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		ve *models.ValidationError
		nf *models.NotFoundError
		su *models.StorageUnavailableError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &su) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return &models.StorageUnavailableError{Op: op, Err: err}
	case mongo.IsDuplicateKeyError(err):
		return &models.ValidationError{
			Record:  -1,
			Field:   "variants.sku",
			Message: "sku already exists in the catalog",
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// checkContext devuelve el error de contexto clasificado antes de tocar el almacenamiento.
func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return classify(op, err)
	}
	return nil
}
