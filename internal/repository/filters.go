package repository

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"catalog-service/internal/models"
)

// categoryFilter: productos activos de una categoría.
func categoryFilter(category models.Category) bson.M {
	return bson.M{
		"category": category,
		"isActive": true,
	}
}

// lowStockFilter: productos activos con al menos una variante con stock <= threshold.
// Es un filtro existencial sobre las variantes, no sobre el stock total.
func lowStockFilter(threshold int) bson.M {
	return bson.M{
		"isActive": true,
		"variants": bson.M{
			"$elemMatch": bson.M{"stock": bson.M{"$lte": threshold}},
		},
	}
}

// skuPrefixFilter: productos activos con alguna variante cuyo SKU empieza por prefix.
func skuPrefixFilter(prefix string) bson.M {
	return bson.M{
		"isActive": true,
		"variants.sku": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(prefix),
		},
	}
}

// variantColorFilter: productos activos con alguna variante cuyo color contiene
// pattern (sin distinguir mayúsculas). Con inStockOnly esa misma variante debe
// tener stock.
func variantColorFilter(pattern string, inStockOnly bool) bson.M {
	match := bson.M{
		"color": primitive.Regex{Pattern: regexp.QuoteMeta(pattern), Options: "i"},
	}
	if inStockOnly {
		match["stock"] = bson.M{"$gt": 0}
	}
	return bson.M{
		"isActive": true,
		"variants": bson.M{"$elemMatch": match},
	}
}

// averagePricePipeline agrupa todos los productos (activos o no) por categoría.
func averagePricePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$basePrice"}}},
			{Key: "productCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "avgPrice", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}
}

// highTotalStockPipeline calcula totalStock por producto, se queda con los que
// superan minTotal y recorta las variantes a las que tienen stock.
func highTotalStockPipeline(minTotal int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{
			{Key: "totalStock", Value: bson.D{{Key: "$sum", Value: "$variants.stock"}}},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: "totalStock", Value: bson.D{{Key: "$gt", Value: minTotal}}},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "variants", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$variants", bson.A{}}}}},
				{Key: "as", Value: "v"},
				{Key: "cond", Value: bson.D{{Key: "$gt", Value: bson.A{"$$v.stock", 0}}}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "totalStock", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}
}

// variantStockUpdate fija el stock de la variante localizada por el operador posicional.
func variantStockUpdate(stock int, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"variants.$.stock": stock,
			"updatedAt":        now,
		},
	}
}
