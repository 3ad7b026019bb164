package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopmono/shopmono/internal/models"
	"github.com/shopmono/shopmono/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CartRepository interface {
	GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error)
	UpsertCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepo(db *mongo.Database) CartRepository {
	return &cartRepository{collection: db.Collection("carts")}
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}

	err := r.collection.FindOne(dbCtx, bson.M{"user_id": userID}).Decode(cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// UpsertCart persists the whole cart document in one atomic write; the
// store's per-document atomicity is the only consistency guarantee (two
// concurrent writers to the same cart race, last write wins).
func (r *cartRepository) UpsertCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}

	cart.UpdatedAt = now

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{"$set": cart}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(dbCtx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", wrapWriteErr(err))
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, userID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
