package handlers

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalog-service/internal/cache"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

const (
	// DefaultMinTotalStock es el mínimo de /api/stats/high-stock cuando no se indica.
	DefaultMinTotalStock = 50

	cachePrefix   = "catalog:"
	healthTimeout = 2 * time.Second
	statsCacheKey = cachePrefix + "stats:categories"
)

type ProductHandler struct {
	store repository.Store
	cache cache.Cache
	ttl   time.Duration
}

// NewProductHandler crea el handler. cache puede ser nil para desactivar el caché.
func NewProductHandler(store repository.Store, c cache.Cache, ttl time.Duration) *ProductHandler {
	return &ProductHandler{store: store, cache: c, ttl: ttl}
}

// Health comprueba que el store responde leyendo el primer producto.
func (h *ProductHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	next, stop := iter.Pull2(h.store.FindAll(ctx))
	defer stop()

	if _, err, _ := next(); err != nil {
		log.Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, Response{
			Message: "unhealthy",
			Error:   "storage unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "healthy"})
}

// ListProducts devuelve todo el catálogo, sin paginación.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := repository.Collect(h.store.FindAll(c.Request.Context()))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, newProductResponses(products))
}

// GetProduct obtiene un producto por ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, newProductResponse(product))
}

// ListByCategory lista los productos activos de una categoría (con caché)
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	category := models.Category(c.Param("category"))
	key := cachePrefix + "category:" + string(category)

	products, err := cached(c.Request.Context(), h, key, func(ctx context.Context) ([]productResponse, error) {
		products, err := h.store.FindByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		return newProductResponses(products), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, products)
}

// ListLowStock lista productos con alguna variante en o por debajo del umbral.
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	threshold, err := intQuery(c, "threshold", repository.DefaultLowStockThreshold)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.store.FindLowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, newProductResponses(products))
}

// SearchByColor busca por color de variante; inStock=true exige stock en esa variante.
func (h *ProductHandler) SearchByColor(c *gin.Context) {
	inStock := false
	if raw := c.Query("inStock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, models.NewValidationError("inStock", "must be a boolean"))
			return
		}
		inStock = v
	}

	products, err := h.store.FindByVariantColor(c.Request.Context(), c.Query("color"), inStock)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, newProductResponses(products))
}

func (h *ProductHandler) ListBySKUPrefix(c *gin.Context) {
	products, err := h.store.FindBySKUPrefix(c.Request.Context(), c.Param("prefix"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, newProductResponses(products))
}

// CategoryStats devuelve el precio medio por categoría (con caché)
func (h *ProductHandler) CategoryStats(c *gin.Context) {
	stats, err := cached(c.Request.Context(), h, statsCacheKey, h.store.AveragePriceByCategory)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, stats)
}

// HighStock lista productos con stock total mayor que min (con caché)
func (h *ProductHandler) HighStock(c *gin.Context) {
	minTotal, err := intQuery(c, "min", DefaultMinTotalStock)
	if err != nil {
		respondError(c, err)
		return
	}

	key := fmt.Sprintf("%sstats:high-stock:%d", cachePrefix, minTotal)
	summaries, err := cached(c.Request.Context(), h, key, func(ctx context.Context) ([]productResponse, error) {
		summaries, err := h.store.HighTotalStock(ctx, minTotal)
		if err != nil {
			return nil, err
		}
		return newStockSummaryResponses(summaries), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, summaries)
}

type stockUpdateRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// UpdateVariantStock fija el stock de una variante e invalida el caché.
func (h *ProductHandler) UpdateVariantStock(c *gin.Context) {
	var req stockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("stock", "body must be {\"stock\": <integer>}"))
		return
	}

	sku := c.Param("sku")
	if err := h.store.UpdateVariantStock(c.Request.Context(), sku, *req.Stock); err != nil {
		respondError(c, err)
		return
	}

	// Invalidar caché de categorías y estadísticas
	if h.cache != nil {
		if err := h.cache.DeleteByPrefix(c.Request.Context(), cachePrefix); err != nil {
			log.Warn().Err(err).Msg("cache invalidation failed")
		}
	}

	log.Info().Str("sku", sku).Int("stock", *req.Stock).Msg("variant stock updated")
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "stock updated",
		Data:    gin.H{"sku": sku, "stock": *req.Stock},
	})
}

// cached devuelve el valor guardado en key o lo carga con load y lo guarda.
// Un fallo del caché no hace fallar la petición.
func cached[T any](ctx context.Context, h *ProductHandler, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if h.cache != nil {
		var out []T
		found, err := h.cache.Get(ctx, key, &out)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if found {
			return out, nil
		}
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, out, h.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return out, nil
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
