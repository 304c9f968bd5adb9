package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// Parámetros de las consultas de ejemplo.
const (
	ReportLowStockThreshold = 10
	ReportColor             = "black"
	ReportMinTotalStock     = 50
)

// Report agrupa los resultados de las consultas de ejemplo.
type Report struct {
	Electronics      []models.Product
	LowStock         []models.Product
	ColorInStock     []models.Product
	CategoryAverages []models.CategoryPriceStats
	HighStock        []models.StockSummary
}

// Run reemplaza el catálogo con los productos de ejemplo y crea los índices.
func Run(ctx context.Context, store repository.Store) ([]models.Product, error) {
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	products, err := store.ReplaceAll(ctx, SampleProducts())
	if err != nil {
		return nil, fmt.Errorf("seed products: %w", err)
	}

	for _, p := range products {
		log.Info().
			Str("id", p.ID.Hex()).
			Str("name", p.Name).
			Str("category", string(p.Category)).
			Int("variants", len(p.Variants)).
			Msg("product seeded")
	}
	return products, nil
}

// BuildReport lanza las consultas de ejemplo en paralelo.
func BuildReport(ctx context.Context, store repository.Store) (*Report, error) {
	report := &Report{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		report.Electronics, err = store.FindByCategory(ctx, models.CategoryElectronics)
		return err
	})
	g.Go(func() (err error) {
		report.LowStock, err = store.FindLowStock(ctx, ReportLowStockThreshold)
		return err
	})
	g.Go(func() (err error) {
		report.ColorInStock, err = store.FindByVariantColor(ctx, ReportColor, true)
		return err
	})
	g.Go(func() (err error) {
		report.CategoryAverages, err = store.AveragePriceByCategory(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.HighStock, err = store.HighTotalStock(ctx, ReportMinTotalStock)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// Log escribe el informe en el log.
func (r *Report) Log() {
	logProducts("electronics products", r.Electronics)
	logProducts(fmt.Sprintf("products with a variant at or below %d units", ReportLowStockThreshold), r.LowStock)
	logProducts(fmt.Sprintf("products with %q variants in stock", ReportColor), r.ColorInStock)

	for _, s := range r.CategoryAverages {
		log.Info().
			Str("category", string(s.Category)).
			Float64("avg_price", s.AvgPrice).
			Int("products", s.ProductCount).
			Msg("average price by category")
	}

	for _, s := range r.HighStock {
		skus := make([]string, len(s.Variants))
		for i, v := range s.Variants {
			skus[i] = v.SKU
		}
		log.Info().
			Str("name", s.Name).
			Int("total_stock", s.TotalStock).
			Strs("in_stock_skus", skus).
			Msgf("products with more than %d units in stock", ReportMinTotalStock)
	}
}

func logProducts(title string, products []models.Product) {
	log.Info().Int("count", len(products)).Msg(title)
	for _, p := range products {
		log.Info().
			Str("name", p.Name).
			Str("brand", p.Brand).
			Float64("base_price", p.BasePrice).
			Int("total_stock", p.TotalStock()).
			Bool("has_stock", p.HasStock()).
			Msg(title)
	}
}

// DemoStockUpdate aplica la actualización de stock de ejemplo y devuelve el producto afectado.
func DemoStockUpdate(ctx context.Context, store repository.Store) (models.Product, error) {
	if err := store.UpdateVariantStock(ctx, DemoStockSKU, DemoStockValue); err != nil {
		return models.Product{}, fmt.Errorf("update %s: %w", DemoStockSKU, err)
	}

	products, err := store.FindBySKUPrefix(ctx, DemoStockSKU)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if v, ok := p.VariantBySKU(DemoStockSKU); ok {
			log.Info().
				Str("sku", v.SKU).
				Int("stock", v.Stock).
				Time("updated_at", p.UpdatedAt).
				Msg("variant stock updated")
			return p, nil
		}
	}
	return models.Product{}, &models.NotFoundError{Resource: "variant", Key: DemoStockSKU}
}
