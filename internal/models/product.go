package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category es la categoría de un producto. Solo se aceptan los valores de Categories.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHomeKitchen Category = "Home & Kitchen"
	CategorySports      Category = "Sports"
	CategoryBeauty      Category = "Beauty"
	CategoryToys        Category = "Toys"
)

// Categories lista las categorías válidas en orden de declaración.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHomeKitchen,
	CategorySports,
	CategoryBeauty,
	CategoryToys,
}

// Valid indica si la categoría pertenece a la enumeración.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Variant es una configuración comprable (color/talla/stock) embebida en un Product.
type Variant struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Color         string             `json:"color" bson:"color" validate:"required"`
	Size          string             `json:"size" bson:"size" validate:"required"`
	Stock         int                `json:"stock" bson:"stock" validate:"gte=0"`
	SKU           string             `json:"sku" bson:"sku" validate:"required"`
	PriceModifier float64            `json:"priceModifier" bson:"priceModifier" validate:"gte=-1000,lte=1000"`
	Images        []string           `json:"images" bson:"images"`
}

// Rating resume las valoraciones de un producto.
type Rating struct {
	Average float64 `json:"average" bson:"average" validate:"gte=0,lte=5"`
	Count   int     `json:"count" bson:"count" validate:"gte=0"`
}

// Product representa un producto del catálogo con sus variantes embebidas
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,max=100"`
	Description string             `json:"description" bson:"description" validate:"required,max=1000"`
	BasePrice   float64            `json:"basePrice" bson:"basePrice" validate:"gte=0"`
	Category    Category           `json:"category" bson:"category" validate:"required,category"`
	Brand       string             `json:"brand" bson:"brand" validate:"required"`
	Tags        []string           `json:"tags" bson:"tags"`
	Variants    []Variant          `json:"variants" bson:"variants" validate:"dive"`
	IsActive    *bool              `json:"isActive" bson:"isActive"`
	Rating      Rating             `json:"rating" bson:"rating"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Active devuelve isActive; un producto sin valor explícito está activo.
func (p *Product) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// SetActive fija isActive.
func (p *Product) SetActive(active bool) {
	p.IsActive = &active
}

// TotalStock suma el stock de todas las variantes (incluidas las agotadas).
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// HasStock indica si alguna variante tiene stock disponible.
func (p *Product) HasStock() bool {
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

// EffectivePrice es el precio base más el modificador de la variante.
func (p *Product) EffectivePrice(v Variant) float64 {
	return p.BasePrice + v.PriceModifier
}

// VariantBySKU busca una variante del producto por SKU.
func (p *Product) VariantBySKU(sku string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.SKU == sku {
			return v, true
		}
	}
	return Variant{}, false
}

// Clone devuelve una copia profunda del producto.
func (p *Product) Clone() Product {
	out := *p
	if p.IsActive != nil {
		active := *p.IsActive
		out.IsActive = &active
	}
	if p.Tags != nil {
		out.Tags = append([]string{}, p.Tags...)
	}
	if p.Variants != nil {
		out.Variants = make([]Variant, len(p.Variants))
		for i, v := range p.Variants {
			if v.Images != nil {
				v.Images = append([]string{}, v.Images...)
			}
			out.Variants[i] = v
		}
	}
	return out
}

// CategoryPriceStats es el resultado de agrupar productos por categoría.
type CategoryPriceStats struct {
	Category     Category `json:"category" bson:"_id"`
	AvgPrice     float64  `json:"avgPrice" bson:"avgPrice"`
	ProductCount int      `json:"productCount" bson:"productCount"`
}

// StockSummary es un producto anotado con su stock total; Variants solo
// contiene las variantes con stock > 0.
type StockSummary struct {
	Product    `bson:",inline"`
	TotalStock int `json:"totalStock" bson:"totalStock"`
}
