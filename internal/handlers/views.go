package handlers

import "catalog-service/internal/models"

type variantResponse struct {
	models.Variant
	EffectivePrice float64 `json:"effectivePrice"`
}

// productResponse añade los valores derivados que no se persisten.
type productResponse struct {
	models.Product
	Variants   []variantResponse `json:"variants"`
	TotalStock int               `json:"totalStock"`
	HasStock   bool              `json:"hasStock"`
}

func newProductResponse(p models.Product) productResponse {
	variants := make([]variantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = variantResponse{Variant: v, EffectivePrice: p.EffectivePrice(v)}
	}
	return productResponse{
		Product:    p,
		Variants:   variants,
		TotalStock: p.TotalStock(),
		HasStock:   p.HasStock(),
	}
}

func newProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = newProductResponse(p)
	}
	return out
}

// newStockSummaryResponses usa el total calculado por el store: las variantes
// del resumen ya vienen filtradas a las que tienen stock.
func newStockSummaryResponses(summaries []models.StockSummary) []productResponse {
	out := make([]productResponse, len(summaries))
	for i, s := range summaries {
		out[i] = newProductResponse(s.Product)
		out[i].TotalStock = s.TotalStock
	}
	return out
}
