package repository

import (
	"context"
	"errors"
	"iter"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/models"
)

// ProductRepository implementa Store sobre una colección de MongoDB.
// Es dueño del cliente y lo desconecta en Close.
type ProductRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	settings
}

func NewProductRepository(client *mongo.Client, database, collection string, opts ...Option) *ProductRepository {
	return &ProductRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
		settings:   newSettings(opts),
	}
}

// Insert valida el lote completo y lo inserta. Si MongoDB rechaza parte del
// lote se borran los documentos ya insertados.
func (r *ProductRepository) Insert(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if err := models.ValidateProducts(products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []models.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.checkExistingSKUs(ctx, products); err != nil {
		return nil, err
	}

	stored := prepareForInsert(products, r.timestamp())
	docs := make([]interface{}, len(stored))
	ids := make([]primitive.ObjectID, len(stored))
	for i := range stored {
		docs[i] = stored[i]
		ids[i] = stored[i].ID
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		r.rollback(ctx, ids)
		return nil, classify("insert products", err)
	}

	return stored, nil
}

// checkExistingSKUs rechaza el lote si algún SKU ya está en el catálogo.
func (r *ProductRepository) checkExistingSKUs(ctx context.Context, products []models.Product) error {
	idx := skuIndex(products)
	if len(idx) == 0 {
		return nil
	}

	skus := make([]string, 0, len(idx))
	for sku := range idx {
		skus = append(skus, sku)
	}

	var existing models.Product
	err := r.collection.FindOne(ctx,
		bson.M{"variants.sku": bson.M{"$in": skus}},
		options.FindOne().SetProjection(bson.M{"variants.sku": 1}),
	).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return classify("check skus", err)
	}

	for _, v := range existing.Variants {
		if ref, ok := idx[v.SKU]; ok {
			return existingSKUError(products, ref, v.SKU)
		}
	}
	return nil
}

func (r *ProductRepository) rollback(ctx context.Context, ids []primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	_, _ = r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// ReplaceAll borra todo el catálogo e inserta el lote (usado por el seeder).
func (r *ProductRepository) ReplaceAll(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if err := models.ValidateProducts(products); err != nil {
		return nil, err
	}

	deleteCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(deleteCtx, bson.M{}); err != nil {
		return nil, classify("clear products", err)
	}

	return r.Insert(ctx, products)
}

// FindAll recorre todos los productos con un cursor; cada range lanza un Find nuevo.
func (r *ProductRepository) FindAll(ctx context.Context) iter.Seq2[models.Product, error] {
	return func(yield func(models.Product, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
		defer cancel()

		cursor, err := r.collection.Find(ctx, bson.M{}, sortByID())
		if err != nil {
			yield(models.Product{}, classify("find all", err))
			return
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var product models.Product
			if err := cursor.Decode(&product); err != nil {
				yield(models.Product{}, classify("decode product", err))
				return
			}
			if !yield(product, nil) {
				return
			}
		}

		if err := cursor.Err(); err != nil {
			yield(models.Product{}, classify("find all", err))
		}
	}
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	objID, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, &models.NotFoundError{Resource: "product", Key: id}
	}
	if err != nil {
		return models.Product{}, classify("find product", err)
	}

	return product, nil
}

func (r *ProductRepository) FindByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	if err := models.ValidateCategory(category); err != nil {
		return nil, err
	}
	return r.find(ctx, "find by category", categoryFilter(category))
}

func (r *ProductRepository) FindLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	return r.find(ctx, "find low stock", lowStockFilter(threshold))
}

func (r *ProductRepository) FindBySKUPrefix(ctx context.Context, prefix string) ([]models.Product, error) {
	if prefix == "" {
		return nil, models.NewValidationError("prefix", "is required")
	}
	return r.find(ctx, "find by sku prefix", skuPrefixFilter(prefix))
}

func (r *ProductRepository) FindByVariantColor(ctx context.Context, pattern string, inStockOnly bool) ([]models.Product, error) {
	if pattern == "" {
		return nil, models.NewValidationError("color", "is required")
	}
	return r.find(ctx, "find by variant color", variantColorFilter(pattern, inStockOnly))
}

func (r *ProductRepository) find(ctx context.Context, op string, filter bson.M) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, sortByID())
	if err != nil {
		return nil, classify(op, err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, classify(op, err)
	}
	return products, nil
}

// AveragePriceByCategory calcula el precio base medio y el número de productos por categoría.
func (r *ProductRepository) AveragePriceByCategory(ctx context.Context) ([]models.CategoryPriceStats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, averagePricePipeline())
	if err != nil {
		return nil, classify("average price by category", err)
	}
	defer cursor.Close(ctx)

	stats := make([]models.CategoryPriceStats, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, classify("average price by category", err)
	}
	return stats, nil
}

// HighTotalStock devuelve los productos cuyo stock total supera minTotal.
func (r *ProductRepository) HighTotalStock(ctx context.Context, minTotal int) ([]models.StockSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, highTotalStockPipeline(minTotal))
	if err != nil {
		return nil, classify("high total stock", err)
	}
	defer cursor.Close(ctx)

	summaries := make([]models.StockSummary, 0)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, classify("high total stock", err)
	}
	return summaries, nil
}

// UpdateVariantStock fija el stock de la variante con ese SKU sin tocar el resto del documento.
func (r *ProductRepository) UpdateVariantStock(ctx context.Context, sku string, stock int) error {
	if sku == "" {
		return models.NewValidationError("sku", "is required")
	}
	if err := models.ValidateStock(stock); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"variants.sku": sku},
		variantStockUpdate(stock, r.timestamp()),
	)
	if err != nil {
		return classify("update variant stock", err)
	}

	if result.MatchedCount == 0 {
		return &models.NotFoundError{Resource: "variant", Key: sku}
	}

	return nil
}

// Delete elimina el producto junto con sus variantes embebidas.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return classify("delete product", err)
	}

	if result.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "product", Key: id}
	}

	return nil
}

// EnsureIndexes crea los índices secundarios del catálogo.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout())
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, indexModels())
	return classify("create indexes", err)
}

func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "brand", Value: 1}},
			Options: options.Index().SetName("category_brand"),
		},
		{
			Keys:    bson.D{{Key: "variants.stock", Value: 1}},
			Options: options.Index().SetName("variants_stock"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags"),
		},
		{
			// Un índice único multikey no impide SKUs repetidos dentro del mismo
			// documento; eso lo cubre ValidateProducts.
			Keys: bson.D{{Key: "variants.sku", Value: 1}},
			Options: options.Index().
				SetName("variants_sku_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"variants.sku": bson.M{"$exists": true}}),
		},
	}
}

// Close desconecta el cliente de MongoDB.
func (r *ProductRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

func sortByID() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("id", "invalid product ID")
	}
	return objID, nil
}
