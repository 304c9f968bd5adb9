package repository_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/seed"
)

// runStoreSuite comprueba el contrato de Store sobre cualquier implementación.
// newStore debe devolver un catálogo vacío.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) repository.Store) {
	seeded := func(t *testing.T) (repository.Store, []models.Product) {
		t.Helper()
		store := newStore(t)
		products, err := store.Insert(context.Background(), seed.SampleProducts())
		require.NoError(t, err)
		return store, products
	}

	t.Run("InsertAssignsIdentityAndTimestamps", func(t *testing.T) {
		store := newStore(t)
		inserted, err := store.Insert(context.Background(), seed.SampleProducts())
		require.NoError(t, err)
		require.Len(t, inserted, 4)

		for _, p := range inserted {
			assert.False(t, p.ID.IsZero())
			assert.True(t, p.Active(), "isActive defaults to true")
			assert.False(t, p.CreatedAt.IsZero())
			assert.Equal(t, p.CreatedAt, p.UpdatedAt)
			for _, v := range p.Variants {
				assert.False(t, v.ID.IsZero())
				assert.NotEqual(t, p.ID, v.ID)
			}
		}
	})

	t.Run("FindAllReturnsInsertedSet", func(t *testing.T) {
		store, inserted := seeded(t)

		found, err := repository.Collect(store.FindAll(context.Background()))
		require.NoError(t, err)
		assert.ElementsMatch(t, ids(inserted), ids(found))

		byID := make(map[string]models.Product)
		for _, p := range inserted {
			byID[p.ID.Hex()] = p
		}
		for _, p := range found {
			want := byID[p.ID.Hex()]
			assert.Equal(t, want.Name, p.Name)
			assert.Equal(t, want.Category, p.Category)
			assert.Equal(t, skus(want.Variants), skus(p.Variants))
			assert.Equal(t, want.TotalStock(), p.TotalStock())

			sum := 0
			for _, v := range p.Variants {
				sum += v.Stock
			}
			assert.Equal(t, sum, p.TotalStock())
		}
	})

	t.Run("FindAllIsRestartable", func(t *testing.T) {
		store, _ := seeded(t)
		seq := store.FindAll(context.Background())

		first, err := repository.Collect(seq)
		require.NoError(t, err)
		second, err := repository.Collect(seq)
		require.NoError(t, err)

		assert.Equal(t, ids(first), ids(second))
	})

	t.Run("FindAllStopsEarly", func(t *testing.T) {
		store, _ := seeded(t)

		n := 0
		for _, err := range store.FindAll(context.Background()) {
			require.NoError(t, err)
			n++
			if n == 2 {
				break
			}
		}
		assert.Equal(t, 2, n)
	})

	t.Run("FindByID", func(t *testing.T) {
		store, inserted := seeded(t)

		p, err := store.FindByID(context.Background(), inserted[2].ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Clean Code", p.Name)

		_, err = store.FindByID(context.Background(), "not-an-id")
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)

		_, err = store.FindByID(context.Background(), "65a000000000000000000000")
		var nf *models.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("FindByCategory", func(t *testing.T) {
		store, _ := seeded(t)

		products, err := store.FindByCategory(context.Background(), models.CategoryElectronics)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "iPhone 15 Pro", products[0].Name)

		products, err = store.FindByCategory(context.Background(), models.CategoryToys)
		require.NoError(t, err)
		assert.Empty(t, products)

		_, err = store.FindByCategory(context.Background(), "Nonexistent")
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "category", ve.Field)
	})

	t.Run("FindByCategorySkipsInactive", func(t *testing.T) {
		store := newStore(t)
		hidden := seed.SampleProducts()[0]
		hidden.SetActive(false)
		_, err := store.Insert(context.Background(), []models.Product{hidden})
		require.NoError(t, err)

		products, err := store.FindByCategory(context.Background(), models.CategoryElectronics)
		require.NoError(t, err)
		assert.Empty(t, products)

		low, err := store.FindLowStock(context.Background(), 100)
		require.NoError(t, err)
		assert.Empty(t, low)
	})

	t.Run("FindLowStockIsExistential", func(t *testing.T) {
		store, _ := seeded(t)

		products, err := store.FindLowStock(context.Background(), 10)
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"iPhone 15 Pro", "Nike Air Max 270", "KitchenAid Artisan Stand Mixer"},
			names(products))

		products, err = store.FindLowStock(context.Background(), repository.DefaultLowStockThreshold)
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"iPhone 15 Pro", "Nike Air Max 270", "KitchenAid Artisan Stand Mixer"},
			names(products))

		products, err = store.FindLowStock(context.Background(), 2)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Nike Air Max 270", "KitchenAid Artisan Stand Mixer"}, names(products))

		products, err = store.FindLowStock(context.Background(), -1)
		require.NoError(t, err)
		assert.Empty(t, products)

		for _, threshold := range []int{0, 3, 12, 30, 45} {
			products, err := store.FindLowStock(context.Background(), threshold)
			require.NoError(t, err)
			assert.ElementsMatch(t, expectedLowStock(seed.SampleProducts(), threshold), names(products), "threshold %d", threshold)
		}
	})

	t.Run("FindBySKUPrefix", func(t *testing.T) {
		store, _ := seeded(t)

		products, err := store.FindBySKUPrefix(context.Background(), "IPH15P-")
		require.NoError(t, err)
		assert.Equal(t, []string{"iPhone 15 Pro"}, names(products))

		products, err = store.FindBySKUPrefix(context.Background(), "NIKE-AM270-RD")
		require.NoError(t, err)
		assert.Equal(t, []string{"Nike Air Max 270"}, names(products))

		products, err = store.FindBySKUPrefix(context.Background(), "AM270")
		require.NoError(t, err)
		assert.Empty(t, products, "prefix match only")

		products, err = store.FindBySKUPrefix(context.Background(), "BOOK-CC.")
		require.NoError(t, err)
		assert.Empty(t, products, "prefix is literal")

		_, err = store.FindBySKUPrefix(context.Background(), "")
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("FindByVariantColor", func(t *testing.T) {
		store, _ := seeded(t)

		products, err := store.FindByVariantColor(context.Background(), "BLACK", false)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Nike Air Max 270", "KitchenAid Artisan Stand Mixer"}, names(products))

		products, err = store.FindByVariantColor(context.Background(), "black", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"Nike Air Max 270"}, names(products))

		products, err = store.FindByVariantColor(context.Background(), "titan", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"iPhone 15 Pro"}, names(products))

		products, err = store.FindByVariantColor(context.Background(), "Black/", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"Nike Air Max 270"}, names(products))

		products, err = store.FindByVariantColor(context.Background(), ".*", false)
		require.NoError(t, err)
		assert.Empty(t, products, "pattern is literal")

		_, err = store.FindByVariantColor(context.Background(), "", false)
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("AveragePriceByCategory", func(t *testing.T) {
		store, _ := seeded(t)

		stats, err := store.AveragePriceByCategory(context.Background())
		require.NoError(t, err)
		require.Len(t, stats, 4)

		want := []models.CategoryPriceStats{
			{Category: models.CategoryElectronics, AvgPrice: 999, ProductCount: 1},
			{Category: models.CategoryHomeKitchen, AvgPrice: 379.99, ProductCount: 1},
			{Category: models.CategoryClothing, AvgPrice: 150, ProductCount: 1},
			{Category: models.CategoryBooks, AvgPrice: 42.99, ProductCount: 1},
		}
		for i := range want {
			assert.Equal(t, want[i].Category, stats[i].Category)
			assert.InDelta(t, want[i].AvgPrice, stats[i].AvgPrice, 1e-9)
			assert.Equal(t, want[i].ProductCount, stats[i].ProductCount)
		}
	})

	t.Run("AveragePriceByCategoryIncludesInactive", func(t *testing.T) {
		store, _ := seeded(t)

		extra := seed.SampleProducts()[0]
		extra.Name = "iPhone 14"
		extra.BasePrice = 799
		extra.SetActive(false)
		for i := range extra.Variants {
			extra.Variants[i].SKU = "IPH14-" + extra.Variants[i].SKU
		}
		_, err := store.Insert(context.Background(), []models.Product{extra})
		require.NoError(t, err)

		stats, err := store.AveragePriceByCategory(context.Background())
		require.NoError(t, err)
		require.Len(t, stats, 4)
		assert.Equal(t, models.CategoryElectronics, stats[0].Category)
		assert.Equal(t, 2, stats[0].ProductCount)
		assert.InDelta(t, 899.0, stats[0].AvgPrice, 1e-9)
	})

	t.Run("HighTotalStock", func(t *testing.T) {
		store, _ := seeded(t)

		summaries, err := store.HighTotalStock(context.Background(), 50)
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		assert.Equal(t, "Nike Air Max 270", summaries[0].Name)
		assert.Equal(t, 95, summaries[0].TotalStock)
		assert.Equal(t, []string{"NIKE-AM270-BW-9", "NIKE-AM270-BW-10", "NIKE-AM270-RD-9"}, skus(summaries[0].Variants))

		assert.Equal(t, "iPhone 15 Pro", summaries[1].Name)
		assert.Equal(t, 51, summaries[1].TotalStock)
		assert.Len(t, summaries[1].Variants, 4)

		summaries, err = store.HighTotalStock(context.Background(), 51)
		require.NoError(t, err)
		assert.Len(t, summaries, 1, "strictly greater than minTotal")

		summaries, err = store.HighTotalStock(context.Background(), 1000)
		require.NoError(t, err)
		assert.Empty(t, summaries)
	})

	t.Run("UpdateVariantStock", func(t *testing.T) {
		store, inserted := seeded(t)
		ctx := context.Background()

		before, err := repository.Collect(store.FindAll(ctx))
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		require.NoError(t, store.UpdateVariantStock(ctx, "NIKE-AM270-BW-9", 40))

		after, err := repository.Collect(store.FindAll(ctx))
		require.NoError(t, err)
		require.Len(t, after, len(before))

		nikeID := inserted[1].ID
		for i := range after {
			if after[i].ID != nikeID {
				assert.Equal(t, before[i], after[i], "other products are untouched")
				continue
			}

			nike := after[i]
			assert.True(t, nike.UpdatedAt.After(before[i].UpdatedAt))
			assert.Equal(t, before[i].CreatedAt, nike.CreatedAt)
			require.Len(t, nike.Variants, 4)
			assert.Equal(t, 40, nike.Variants[0].Stock)
			assert.Equal(t, before[i].Variants[0].ID, nike.Variants[0].ID)
			assert.Equal(t, before[i].Variants[0].SKU, nike.Variants[0].SKU)
			assert.Equal(t, before[i].Variants[0].Color, nike.Variants[0].Color)
			assert.Equal(t, before[i].Variants[1:], nike.Variants[1:])
		}
	})

	t.Run("UpdateVariantStockErrors", func(t *testing.T) {
		store, _ := seeded(t)
		ctx := context.Background()

		var ve *models.ValidationError
		require.ErrorAs(t, store.UpdateVariantStock(ctx, "NIKE-AM270-BW-9", -1), &ve)
		assert.Equal(t, "stock", ve.Field)

		require.ErrorAs(t, store.UpdateVariantStock(ctx, "", 1), &ve)

		var nf *models.NotFoundError
		require.ErrorAs(t, store.UpdateVariantStock(ctx, "NO-SUCH-SKU", 1), &nf)
		assert.Equal(t, "NO-SUCH-SKU", nf.Key)

		p, err := store.FindBySKUPrefix(ctx, "NIKE-AM270-BW-9")
		require.NoError(t, err)
		require.Len(t, p, 1)
		assert.Equal(t, 45, p[0].Variants[0].Stock)
	})

	t.Run("ConcurrentStockUpdatesLastWriteWins", func(t *testing.T) {
		store, _ := seeded(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 1; i <= 8; i++ {
			wg.Add(1)
			go func(stock int) {
				defer wg.Done()
				assert.NoError(t, store.UpdateVariantStock(ctx, "BOOK-CC-PB", stock))
			}(i)
		}
		wg.Wait()

		p, err := store.FindBySKUPrefix(ctx, "BOOK-CC-PB")
		require.NoError(t, err)
		require.Len(t, p, 1)
		assert.GreaterOrEqual(t, p[0].Variants[0].Stock, 1)
		assert.LessOrEqual(t, p[0].Variants[0].Stock, 8)
	})

	t.Run("InsertRejectsDuplicateSKUAcrossProducts", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		batch := seed.SampleProducts()
		batch[3].Variants[0].SKU = batch[0].Variants[2].SKU

		_, err := store.Insert(ctx, batch)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, 3, ve.Record)
		assert.Equal(t, "variants[0].sku", ve.Field)

		all, err := repository.Collect(store.FindAll(ctx))
		require.NoError(t, err)
		assert.Empty(t, all, "no partial insert")
	})

	t.Run("InsertRejectsSKUAlreadyStored", func(t *testing.T) {
		store, _ := seeded(t)
		ctx := context.Background()

		fresh := seed.SampleProducts()[2]
		fresh.Name = "Clean Architecture"
		fresh.Variants[0].SKU = "BOOK-CA-PB"

		ok := seed.SampleProducts()[2]
		ok.Name = "Refactoring"
		for i := range ok.Variants {
			ok.Variants[i].SKU = "BOOK-RF-" + ok.Variants[i].Size
		}

		_, err := store.Insert(ctx, []models.Product{ok, fresh})
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, 1, ve.Record)
		assert.Equal(t, "variants[1].sku", ve.Field)
		assert.Contains(t, ve.Message, "BOOK-CC-HC")

		all, err := repository.Collect(store.FindAll(ctx))
		require.NoError(t, err)
		assert.Len(t, all, 4, "no partial insert")
	})

	t.Run("InsertRejectsInvalidRecord", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		batch := seed.SampleProducts()
		batch[1].Category = "Shoes"

		_, err := store.Insert(ctx, batch)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, 1, ve.Record)
		assert.Equal(t, "Nike Air Max 270", ve.Name)
		assert.Equal(t, "category", ve.Field)

		all, err := repository.Collect(store.FindAll(ctx))
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("ReplaceAll", func(t *testing.T) {
		store, first := seeded(t)
		ctx := context.Background()

		second, err := store.ReplaceAll(ctx, seed.SampleProducts())
		require.NoError(t, err)

		all, err := repository.Collect(store.FindAll(ctx))
		require.NoError(t, err)
		assert.ElementsMatch(t, ids(second), ids(all))
		assert.NotEqual(t, ids(first), ids(all))

		bad := seed.SampleProducts()
		bad[0].Name = ""
		_, err = store.ReplaceAll(ctx, bad)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)

		all, err = repository.Collect(store.FindAll(ctx))
		require.NoError(t, err)
		assert.ElementsMatch(t, ids(second), ids(all), "invalid batch leaves the catalog untouched")
	})

	t.Run("Delete", func(t *testing.T) {
		store, inserted := seeded(t)
		ctx := context.Background()

		require.NoError(t, store.Delete(ctx, inserted[1].ID.Hex()))

		products, err := store.FindBySKUPrefix(ctx, "NIKE-")
		require.NoError(t, err)
		assert.Empty(t, products)

		var nf *models.NotFoundError
		require.ErrorAs(t, store.Delete(ctx, inserted[1].ID.Hex()), &nf)
		var nf2 *models.NotFoundError
		require.ErrorAs(t, store.UpdateVariantStock(ctx, "NIKE-AM270-BW-9", 1), &nf2)

		// El SKU queda libre al borrar el producto.
		_, err = store.Insert(ctx, []models.Product{seed.SampleProducts()[1]})
		require.NoError(t, err)
	})

	t.Run("EnsureIndexesIsIdempotent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.EnsureIndexes(context.Background()))
		require.NoError(t, store.EnsureIndexes(context.Background()))
	})

	t.Run("ExpiredContextIsStorageUnavailable", func(t *testing.T) {
		store, _ := seeded(t)

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		_, err := store.FindLowStock(ctx, 5)
		var su *models.StorageUnavailableError
		require.ErrorAs(t, err, &su)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID.Hex()
	}
	return out
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func skus(variants []models.Variant) []string {
	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = v.SKU
	}
	return out
}

func expectedLowStock(products []models.Product, threshold int) []string {
	var out []string
	for _, p := range products {
		for _, v := range p.Variants {
			if v.Stock <= threshold {
				out = append(out, p.Name)
				break
			}
		}
	}
	sort.Strings(out)
	if out == nil {
		return []string{}
	}
	return out
}
