package repository

import (
	"context"
	"iter"
	"slices"
	"sort"
	"strings"
	"sync"

	"catalog-service/internal/models"
)

// MemoryRepository es una implementación en memoria de Store con la misma
// semántica que ProductRepository. Devuelve siempre copias.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []models.Product
	settings
}

// NewMemoryRepository crea un catálogo vacío en memoria.
func NewMemoryRepository(opts ...Option) *MemoryRepository {
	return &MemoryRepository{settings: newSettings(opts)}
}

func (r *MemoryRepository) Insert(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if err := models.ValidateProducts(products); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, "insert products"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkExistingSKUs(products); err != nil {
		return nil, err
	}

	stored := prepareForInsert(products, r.timestamp())
	for i := range stored {
		r.products = append(r.products, stored[i].Clone())
	}
	return stored, nil
}

func (r *MemoryRepository) checkExistingSKUs(products []models.Product) error {
	idx := skuIndex(products)
	for _, p := range r.products {
		for _, v := range p.Variants {
			if ref, ok := idx[v.SKU]; ok {
				return existingSKUError(products, ref, v.SKU)
			}
		}
	}
	return nil
}

func (r *MemoryRepository) ReplaceAll(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if err := models.ValidateProducts(products); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, "clear products"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := prepareForInsert(products, r.timestamp())
	r.products = make([]models.Product, len(stored))
	for i := range stored {
		r.products[i] = stored[i].Clone()
	}
	return stored, nil
}

// FindAll toma una instantánea en cada range.
func (r *MemoryRepository) FindAll(ctx context.Context) iter.Seq2[models.Product, error] {
	return func(yield func(models.Product, error) bool) {
		if err := checkContext(ctx, "find all"); err != nil {
			yield(models.Product{}, err)
			return
		}
		for _, p := range r.snapshot(func(*models.Product) bool { return true }) {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	objID, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}
	if err := checkContext(ctx, "find product"); err != nil {
		return models.Product{}, err
	}

	found := r.snapshot(func(p *models.Product) bool { return p.ID == objID })
	if len(found) == 0 {
		return models.Product{}, &models.NotFoundError{Resource: "product", Key: id}
	}
	return found[0], nil
}

func (r *MemoryRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	if err := models.ValidateCategory(category); err != nil {
		return nil, err
	}
	return r.find(ctx, "find by category", func(p *models.Product) bool {
		return p.Active() && p.Category == category
	})
}

func (r *MemoryRepository) FindLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	return r.find(ctx, "find low stock", func(p *models.Product) bool {
		return p.Active() && anyVariant(p, func(v models.Variant) bool { return v.Stock <= threshold })
	})
}

func (r *MemoryRepository) FindBySKUPrefix(ctx context.Context, prefix string) ([]models.Product, error) {
	if prefix == "" {
		return nil, models.NewValidationError("prefix", "is required")
	}
	return r.find(ctx, "find by sku prefix", func(p *models.Product) bool {
		return p.Active() && anyVariant(p, func(v models.Variant) bool { return strings.HasPrefix(v.SKU, prefix) })
	})
}

func (r *MemoryRepository) FindByVariantColor(ctx context.Context, pattern string, inStockOnly bool) ([]models.Product, error) {
	if pattern == "" {
		return nil, models.NewValidationError("color", "is required")
	}
	needle := strings.ToLower(pattern)
	return r.find(ctx, "find by variant color", func(p *models.Product) bool {
		return p.Active() && anyVariant(p, func(v models.Variant) bool {
			if inStockOnly && v.Stock <= 0 {
				return false
			}
			return strings.Contains(strings.ToLower(v.Color), needle)
		})
	})
}

func (r *MemoryRepository) AveragePriceByCategory(ctx context.Context) ([]models.CategoryPriceStats, error) {
	if err := checkContext(ctx, "average price by category"); err != nil {
		return nil, err
	}

	r.mu.RLock()
	sums := make(map[models.Category]float64)
	counts := make(map[models.Category]int)
	for _, p := range r.products {
		sums[p.Category] += p.BasePrice
		counts[p.Category]++
	}
	r.mu.RUnlock()

	stats := make([]models.CategoryPriceStats, 0, len(counts))
	for category, count := range counts {
		stats = append(stats, models.CategoryPriceStats{
			Category:     category,
			AvgPrice:     sums[category] / float64(count),
			ProductCount: count,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AvgPrice != stats[j].AvgPrice {
			return stats[i].AvgPrice > stats[j].AvgPrice
		}
		return stats[i].Category < stats[j].Category
	})
	return stats, nil
}

func (r *MemoryRepository) HighTotalStock(ctx context.Context, minTotal int) ([]models.StockSummary, error) {
	products, err := r.find(ctx, "high total stock", func(p *models.Product) bool {
		return p.TotalStock() > minTotal
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]models.StockSummary, 0, len(products))
	for _, p := range products {
		total := p.TotalStock()
		inStock := make([]models.Variant, 0, len(p.Variants))
		for _, v := range p.Variants {
			if v.Stock > 0 {
				inStock = append(inStock, v)
			}
		}
		p.Variants = inStock
		summaries = append(summaries, models.StockSummary{Product: p, TotalStock: total})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].TotalStock != summaries[j].TotalStock {
			return summaries[i].TotalStock > summaries[j].TotalStock
		}
		return summaries[i].ID.Hex() < summaries[j].ID.Hex()
	})
	return summaries, nil
}

func (r *MemoryRepository) UpdateVariantStock(ctx context.Context, sku string, stock int) error {
	if sku == "" {
		return models.NewValidationError("sku", "is required")
	}
	if err := models.ValidateStock(stock); err != nil {
		return err
	}
	if err := checkContext(ctx, "update variant stock"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		p := &r.products[i]
		for j := range p.Variants {
			if p.Variants[j].SKU == sku {
				p.Variants[j].Stock = stock
				p.UpdatedAt = r.timestamp()
				return nil
			}
		}
	}
	return &models.NotFoundError{Resource: "variant", Key: sku}
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := checkContext(ctx, "delete product"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.products)
	r.products = slices.DeleteFunc(r.products, func(p models.Product) bool { return p.ID == objID })
	if len(r.products) == before {
		return &models.NotFoundError{Resource: "product", Key: id}
	}
	return nil
}

// EnsureIndexes no hace nada en memoria.
func (r *MemoryRepository) EnsureIndexes(ctx context.Context) error {
	return checkContext(ctx, "create indexes")
}

func (r *MemoryRepository) Close(context.Context) error { return nil }

func (r *MemoryRepository) find(ctx context.Context, op string, match func(*models.Product) bool) ([]models.Product, error) {
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}
	return r.snapshot(match), nil
}

// snapshot copia, en orden de inserción, los productos que cumplen match.
func (r *MemoryRepository) snapshot(match func(*models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0)
	for i := range r.products {
		if match(&r.products[i]) {
			out = append(out, r.products[i].Clone())
		}
	}
	return out
}

func anyVariant(p *models.Product, match func(models.Variant) bool) bool {
	return slices.ContainsFunc(p.Variants, match)
}

var (
	_ Store = (*MemoryRepository)(nil)
	_ Store = (*ProductRepository)(nil)
)
