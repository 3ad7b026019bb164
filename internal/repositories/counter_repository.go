package repository

import (
	"context"
	"fmt"

	"github.com/shopmono/shopmono/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterRepository hands out monotonic sequence values. Order numbers come
// from here instead of a count-then-format pattern, which is not serialized
// against concurrent creation and can mint duplicates.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	collection *mongo.Collection
}

func NewCounterRepo(db *mongo.Database) CounterRepository {
	return &counterRepository{collection: db.Collection("counters")}
}

// Next atomically increments the named counter and returns the new value.
// The upsert seeds the document on first use.
func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}

	err := r.collection.FindOneAndUpdate(
		dbCtx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}

	return doc.Seq, nil
}
