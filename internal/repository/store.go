package repository

import (
	"context"
	"iter"

	"catalog-service/internal/models"
)

// DefaultLowStockThreshold es el umbral de FindLowStock cuando el llamador no indica uno.
const DefaultLowStockThreshold = 5

// Store define el acceso al catálogo de productos.
//
// Todas las operaciones son independientes: ninguna abarca más de una
// operación de almacenamiento ni reintenta internamente. Los errores son
// *models.ValidationError, *models.NotFoundError o
// *models.StorageUnavailableError.
type Store interface {
	// Insert valida y guarda un lote completo; si un registro falla no se guarda ninguno.
	Insert(ctx context.Context, products []models.Product) ([]models.Product, error)
	// ReplaceAll borra todo el catálogo e inserta el lote.
	ReplaceAll(ctx context.Context, products []models.Product) ([]models.Product, error)

	// FindAll recorre todos los productos; cada iteración lanza una consulta nueva.
	FindAll(ctx context.Context) iter.Seq2[models.Product, error]
	FindByID(ctx context.Context, id string) (models.Product, error)
	FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error)
	FindLowStock(ctx context.Context, threshold int) ([]models.Product, error)
	FindBySKUPrefix(ctx context.Context, prefix string) ([]models.Product, error)
	FindByVariantColor(ctx context.Context, pattern string, inStockOnly bool) ([]models.Product, error)

	AveragePriceByCategory(ctx context.Context) ([]models.CategoryPriceStats, error)
	HighTotalStock(ctx context.Context, minTotal int) ([]models.StockSummary, error)

	UpdateVariantStock(ctx context.Context, sku string, stock int) error
	Delete(ctx context.Context, id string) error

	EnsureIndexes(ctx context.Context) error
	Close(ctx context.Context) error
}

// Collect consume una secuencia de FindAll y devuelve el primer error.
func Collect(seq iter.Seq2[models.Product, error]) ([]models.Product, error) {
	products := make([]models.Product, 0)
	for p, err := range seq {
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
