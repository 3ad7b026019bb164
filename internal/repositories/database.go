package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopmono/shopmono/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Shared sentinel errors; services translate these into AppErrors.
var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type Repositories struct {
	client *mongo.Client
	db     *mongo.Database

	User     UserRepository
	Category CategoryRepository
	Product  ProductRepository
	Cart     CartRepository
	Order    OrderRepository
	Counter  CounterRepository
}

func New(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)

	repos := &Repositories{
		client:   client,
		db:       db,
		User:     NewUserRepo(db),
		Category: NewCategoryRepo(db),
		Product:  NewProductRepo(db),
		Cart:     NewCartRepo(db),
		Order:    NewOrderRepo(db),
		Counter:  NewCounterRepo(db),
	}

	if err := repos.ensureIndexes(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return repos, nil
}

func (r *Repositories) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// ensureIndexes creates the uniqueness constraints the aggregates rely on,
// the cart TTL index, and the product text index backing search.
func (r *Repositories) ensureIndexes(ctx context.Context, cfg *config.Config) error {
	unique := options.Index().SetUnique(true)
	uniqueSparse := options.Index().SetUnique(true).SetSparse(true)

	cartTTL := int32(cfg.Cart.ExpiryDays * 24 * 60 * 60)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"categories": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		"products": {
			{Keys: bson.D{{Key: "sku", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "featured", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		},
		"carts": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "session_token", Value: 1}}, Options: uniqueSparse},
			{Keys: bson.D{{Key: "updated_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(cartTTL)},
		},
		"orders": {
			{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := r.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("collection %s: %w", collection, err)
		}
	}

	return nil
}

// wrapWriteErr maps driver errors onto the repository sentinels.
func wrapWriteErr(err error) error {
	if err == nil {
		return nil
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, err.Error())
	}

	return err
}
