package routes

import (
	"github.com/gin-gonic/gin"

	"catalog-service/internal/handlers"
)

// RegisterRoutes monta los endpoints del catálogo en el router.
func RegisterRoutes(router *gin.Engine, h *handlers.ProductHandler) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		products := api.Group("/products")
		products.GET("", h.ListProducts)
		products.GET("/low-stock", h.ListLowStock)
		products.GET("/search", h.SearchByColor)
		products.GET("/category/:category", h.ListByCategory)
		products.GET("/sku/:prefix", h.ListBySKUPrefix)
		products.GET("/:id", h.GetProduct)

		stats := api.Group("/stats")
		stats.GET("/categories", h.CategoryStats)
		stats.GET("/high-stock", h.HighStock)

		api.PATCH("/variants/:sku/stock", h.UpdateVariantStock)
	}
}
