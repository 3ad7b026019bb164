package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopmono/shopmono/internal/models"
	"github.com/shopmono/shopmono/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	ListProducts(ctx context.Context, query *models.ProductListQuery) ([]*models.Product, int, error)
	ListFeatured(ctx context.Context, limit int) ([]*models.Product, error)
	ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DecrementStock(ctx context.Context, productID, variantID string, quantity int64) error
	DeleteProduct(ctx context.Context, id string) error
}

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepo(db *mongo.Database) ProductRepository {
	return &productRepository{collection: db.Collection("products")}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(dbCtx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", wrapWriteErr(err))
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *productRepository) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"sku": sku})
}

func (r *productRepository) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	err := r.collection.FindOne(dbCtx, filter).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListProducts builds the filter/sort document from the query and applies
// store-side pagination. Free-text search delegates to the text index.
func (r *productRepository) ListProducts(ctx context.Context, query *models.ProductListQuery) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.M{}

	if query.Status != "" {
		filter["status"] = query.Status
	}

	if query.Category != "" {
		filter["category_id"] = query.Category
	}

	if query.MinPrice != nil || query.MaxPrice != nil {
		price := bson.M{}
		if query.MinPrice != nil {
			price["$gte"] = *query.MinPrice
		}

		if query.MaxPrice != nil {
			price["$lte"] = *query.MaxPrice
		}

		filter["price"] = price
	}

	if query.Search != "" {
		filter["$text"] = bson.M{"$search": query.Search}
	}

	if query.Featured != nil {
		filter["featured"] = *query.Featured
	}

	sortOrder := -1
	if query.Order == "asc" {
		sortOrder = 1
	}

	sortField := query.Sort
	if sortField == "" {
		sortField = "created_at"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(int64((query.Page - 1) * query.Limit)).
		SetLimit(int64(query.Limit))

	cursor, err := r.collection.Find(dbCtx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	defer cursor.Close(dbCtx)

	var products []*models.Product
	if err := cursor.All(dbCtx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	total, err := r.collection.CountDocuments(dbCtx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, int(total), nil
}

func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]*models.Product, error) {
	filter := bson.M{"featured": true, "status": models.ProductStatusActive}

	return r.findNewest(ctx, filter, limit)
}

func (r *productRepository) ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*models.Product, error) {
	filter := bson.M{
		"_id":         bson.M{"$ne": excludeID},
		"category_id": categoryID,
		"status":      models.ProductStatusActive,
	}

	return r.findNewest(ctx, filter, limit)
}

func (r *productRepository) findNewest(ctx context.Context, filter bson.M, limit int) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(dbCtx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	defer cursor.Close(dbCtx)

	var products []*models.Product
	if err := cursor.All(dbCtx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.ReplaceOne(dbCtx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", wrapWriteErr(err))
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// DecrementStock takes quantity off the product (or one of its variants)
// with a guarded $inc, so concurrent checkouts cannot drive stock negative.
func (r *productRepository) DecrementStock(ctx context.Context, productID, variantID string, quantity int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": productID}
	update := bson.M{"$inc": bson.M{"quantity": -quantity}}

	if variantID != "" {
		filter["variants"] = bson.M{"$elemMatch": bson.M{"_id": variantID, "quantity": bson.M{"$gte": quantity}}}
		update = bson.M{"$inc": bson.M{"variants.$.quantity": -quantity}}
	} else {
		filter["quantity"] = bson.M{"$gte": quantity}
	}

	result, err := r.collection.UpdateOne(dbCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
