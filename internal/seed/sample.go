package seed

import "catalog-service/internal/models"

// SKU usado por la actualización de stock de ejemplo.
const (
	DemoStockSKU   = "NIKE-AM270-BW-9"
	DemoStockValue = 40
)

// SampleProducts devuelve el catálogo de ejemplo: un producto por categoría
// en Electronics, Clothing, Books y Home & Kitchen.
func SampleProducts() []models.Product {
	return []models.Product{
		{
			Name:        "iPhone 15 Pro",
			Description: "Titanium smartphone with A17 Pro chip, 48MP main camera and USB-C.",
			BasePrice:   999,
			Category:    models.CategoryElectronics,
			Brand:       "Apple",
			Tags:        []string{"smartphone", "ios", "5g"},
			Variants: []models.Variant{
				{Color: "Natural Titanium", Size: "128GB", Stock: 25, SKU: "IPH15P-NT-128", PriceModifier: 0, Images: []string{"iphone15pro-natural-front.jpg", "iphone15pro-natural-back.jpg"}},
				{Color: "Natural Titanium", Size: "256GB", Stock: 15, SKU: "IPH15P-NT-256", PriceModifier: 100, Images: []string{"iphone15pro-natural-front.jpg"}},
				{Color: "Blue Titanium", Size: "128GB", Stock: 8, SKU: "IPH15P-BT-128", PriceModifier: 0, Images: []string{"iphone15pro-blue-front.jpg"}},
				{Color: "Blue Titanium", Size: "512GB", Stock: 3, SKU: "IPH15P-BT-512", PriceModifier: 300, Images: []string{}},
			},
			Rating: models.Rating{Average: 4.7, Count: 1250},
		},
		{
			Name:        "Nike Air Max 270",
			Description: "Lifestyle sneaker with the tallest Air unit yet for all-day comfort.",
			BasePrice:   150,
			Category:    models.CategoryClothing,
			Brand:       "Nike",
			Tags:        []string{"shoes", "sneakers", "running"},
			Variants: []models.Variant{
				{Color: "Black/White", Size: "9", Stock: 45, SKU: "NIKE-AM270-BW-9", PriceModifier: 0, Images: []string{"am270-bw-side.jpg"}},
				{Color: "Black/White", Size: "10", Stock: 32, SKU: "NIKE-AM270-BW-10", PriceModifier: 0, Images: []string{"am270-bw-side.jpg"}},
				{Color: "University Red", Size: "9", Stock: 18, SKU: "NIKE-AM270-RD-9", PriceModifier: 10, Images: []string{"am270-red-side.jpg"}},
				{Color: "University Red", Size: "10", Stock: 0, SKU: "NIKE-AM270-RD-10", PriceModifier: 10, Images: []string{"am270-red-side.jpg"}},
			},
			Rating: models.Rating{Average: 4.5, Count: 890},
		},
		{
			Name:        "Clean Code",
			Description: "A handbook of agile software craftsmanship by Robert C. Martin.",
			BasePrice:   42.99,
			Category:    models.CategoryBooks,
			Brand:       "Prentice Hall",
			Tags:        []string{"programming", "software", "bestseller"},
			Variants: []models.Variant{
				{Color: "Standard", Size: "Paperback", Stock: 30, SKU: "BOOK-CC-PB", PriceModifier: 0, Images: []string{"clean-code-cover.jpg"}},
				{Color: "Standard", Size: "Hardcover", Stock: 12, SKU: "BOOK-CC-HC", PriceModifier: 15, Images: []string{"clean-code-cover.jpg"}},
			},
			Rating: models.Rating{Average: 4.6, Count: 320},
		},
		{
			Name:        "KitchenAid Artisan Stand Mixer",
			Description: "Tilt-head stand mixer with 10 speeds and a stainless steel bowl.",
			BasePrice:   379.99,
			Category:    models.CategoryHomeKitchen,
			Brand:       "KitchenAid",
			Tags:        []string{"kitchen", "baking", "appliance"},
			Variants: []models.Variant{
				{Color: "Empire Red", Size: "5 Quart", Stock: 7, SKU: "KA-SM-ER-5Q", PriceModifier: 0, Images: []string{"mixer-red.jpg"}},
				{Color: "Onyx Black", Size: "5 Quart", Stock: 0, SKU: "KA-SM-OB-5Q", PriceModifier: 0, Images: []string{"mixer-black.jpg"}},
				{Color: "Contour Silver", Size: "6 Quart", Stock: 4, SKU: "KA-SM-CS-6Q", PriceModifier: 50, Images: []string{"mixer-silver.jpg"}},
			},
			Rating: models.Rating{Average: 4.8, Count: 540},
		},
	}
}
