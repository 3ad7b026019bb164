package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/models"
	repository "github.com/shopmono/shopmono/internal/repositories"
)

const (
	orderCounterName = "order_number"
	defaultCurrency  = "USD"
)

type OrderService struct {
	repo        repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	counterRepo repository.CounterRepository
}

func NewOrderService(repo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, counterRepo repository.CounterRepository) *OrderService {
	return &OrderService{
		repo:        repo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		counterRepo: counterRepo,
	}
}

// CreateOrder turns the user's cart into an order: every line is
// re-validated against the live catalog, prices and names are snapshotted
// into the order, stock is decremented, and the cart is cleared. The order
// number comes from an atomic counter so concurrent checkouts never
// collide.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.BadRequestError("Cart is empty").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, apperrors.BadRequestError("Cart is empty")
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	tracked := make(map[string]bool, len(cart.Items))

	for _, line := range cart.Items {
		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, apperrors.BadRequestError("Product in cart is no longer available").WithError(err)
		}

		if product.Status != models.ProductStatusActive {
			return nil, apperrors.BadRequestError("Product in cart is no longer available")
		}

		name := product.Name
		sku := product.SKU
		unitPrice := product.Price
		available := product.Quantity

		if line.VariantID != "" {
			variant := product.VariantByID(line.VariantID)
			if variant == nil {
				return nil, apperrors.BadRequestError("Product variant in cart is no longer available")
			}

			name = name + " (" + variant.Name + ")"
			if variant.SKU != "" {
				sku = variant.SKU
			}

			if variant.Price > 0 {
				unitPrice = variant.Price
			}

			available = variant.Quantity
		}

		if product.TrackQuantity && available < int64(line.Quantity) {
			return nil, apperrors.BadRequestError("Insufficient stock for " + product.Name)
		}

		tracked[line.ProductID] = product.TrackQuantity

		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      name,
			SKU:       sku,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			Total:     unitPrice * float64(line.Quantity),
		})
	}

	seq, err := s.counterRepo.Next(ctx, orderCounterName)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to allocate order number").WithError(err)
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now()

	order := &models.Order{
		ID:              uuid.NewString(),
		OrderNumber:     models.FormatOrderNumber(seq),
		UserID:          userID,
		Items:           items,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		Tax:             req.Tax,
		Shipping:        req.Shipping,
		Discount:        req.Discount,
		Currency:        currency,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.OrderStatusPending,
			Timestamp: now,
			Note:      "Order placed",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	order.RecalculateTotals()

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, apperrors.DatabaseError("Failed to create order").WithError(err)
	}

	for _, item := range order.Items {
		if !tracked[item.ProductID] {
			continue
		}

		if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.VariantID, int64(item.Quantity)); err != nil {
			slog.Warn("Stock decrement failed",
				slog.String("orderId", order.ID),
				slog.String("productId", item.ProductID),
				slog.String("error", err.Error()))
		}
	}

	if err := s.cartRepo.DeleteCart(ctx, userID); err != nil {
		slog.Warn("Cart cleanup after checkout failed",
			slog.String("userId", userID),
			slog.String("error", err.Error()))
	}

	return order, nil
}

// GetOrder fetches one order. Customers only see their own; admins see any.
func (s *OrderService) GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, apperrors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	orders, total, err := s.repo.ListOrdersByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order along the fulfillment pipeline. Transitions
// outside the pipeline are rejected before anything is written.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	now := time.Now()

	if err := order.ApplyStatus(req.Status, req.Note, now); err != nil {
		return nil, apperrors.ValidationError("Invalid status transition").WithError(err)
	}

	entry := order.StatusHistory[len(order.StatusHistory)-1]

	if err := s.repo.AppendStatus(ctx, id, entry); err != nil {
		return nil, apperrors.DatabaseError("Failed to update order status").WithError(err)
	}

	return order, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id string, req *models.UpdatePaymentStatusRequest) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, req.PaymentStatus, req.PaymentID); err != nil {
		return nil, apperrors.DatabaseError("Failed to update payment status").WithError(err)
	}

	order.PaymentStatus = req.PaymentStatus
	if req.PaymentID != "" {
		order.PaymentID = req.PaymentID
	}

	return order, nil
}

// CancelOrder lets a customer cancel their own order while the pipeline
// still allows it.
func (s *OrderService) CancelOrder(ctx context.Context, id, userID string, isAdmin bool) (*models.Order, error) {

	order, err := s.GetOrder(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := order.ApplyStatus(models.OrderStatusCancelled, "Cancelled by customer", time.Now()); err != nil {
		return nil, apperrors.ValidationError("Order can no longer be cancelled").WithError(err)
	}

	entry := order.StatusHistory[len(order.StatusHistory)-1]

	if err := s.repo.AppendStatus(ctx, id, entry); err != nil {
		return nil, apperrors.DatabaseError("Failed to cancel order").WithError(err)
	}

	return order, nil
}
