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

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error)
	AppendStatus(ctx context.Context, id string, entry models.StatusHistoryEntry) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, paymentID string) error
}

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection("orders")}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(dbCtx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", wrapWriteErr(err))
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	err := r.collection.FindOne(dbCtx, bson.M{"_id": id}).Decode(order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.M{"user_id": userID}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(dbCtx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer cursor.Close(dbCtx)

	var orders []*models.Order
	if err := cursor.All(dbCtx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}

	total, err := r.collection.CountDocuments(dbCtx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return orders, int(total), nil
}

// AppendStatus sets the current status and pushes one history entry in a
// single document write, so the log only ever grows.
func (r *orderRepository) AppendStatus(ctx context.Context, id string, entry models.StatusHistoryEntry) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":     entry.Status,
			"updated_at": entry.Timestamp,
		},
		"$push": bson.M{"status_history": entry},
	}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, paymentID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	set := bson.M{
		"payment_status": status,
		"updated_at":     time.Now(),
	}

	if paymentID != "" {
		set["payment_id"] = paymentID
	}

	result, err := r.collection.UpdateOne(dbCtx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
