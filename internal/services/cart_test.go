package service_test

import (
	"context"
	"testing"
	"time"

	appErrors "github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/models"
	repository "github.com/shopmono/shopmono/internal/repositories"
	service "github.com/shopmono/shopmono/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeProduct(id string, price float64, quantity int64) *models.Product {
	return &models.Product{
		ID:            id,
		Name:          "Widget",
		SKU:           "WID-001",
		Price:         price,
		TrackQuantity: true,
		Quantity:      quantity,
		Status:        models.ProductStatusActive,
	}
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates an empty cart on first access", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		cartService := service.NewCartService(mockCarts, &mockProductRepo{})

		mockCarts.On("GetCartByUserID", ctx, "u1").Return(nil, repository.ErrNotFound).Once()

		// Act
		resp, err := cartService.GetCart(ctx, "u1")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "u1", resp.Cart.UserID)
		assert.NotEmpty(t, resp.Cart.ID)
		assert.NotEmpty(t, resp.Cart.SessionToken)
		assert.Empty(t, resp.Cart.Items)
		assert.Zero(t, resp.TotalItems)
		assert.Zero(t, resp.Subtotal)
	})

	t.Run("Returns the existing cart with derived totals", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		cartService := service.NewCartService(mockCarts, &mockProductRepo{})

		cart := &models.Cart{ID: "c1", UserID: "u1"}
		cart.AddItem("p1", "", 2, 9.50, time.Now())

		mockCarts.On("GetCartByUserID", ctx, "u1").Return(cart, nil).Once()

		// Act
		resp, err := cartService.GetCart(ctx, "u1")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 2, resp.TotalItems)
		assert.InDelta(t, 19.00, resp.Subtotal, 0.0001)
	})
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Price Snapshot From Catalog", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		mockProducts := &mockProductRepo{}
		cartService := service.NewCartService(mockCarts, mockProducts)

		mockProducts.On("GetProductByID", ctx, "p1").Return(activeProduct("p1", 24.99, 10), nil).Once()
		mockCarts.On("GetCartByUserID", ctx, "u1").Return(nil, repository.ErrNotFound).Once()
		mockCarts.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		// Act
		resp, err := cartService.AddItem(ctx, "u1", &models.AddCartItemRequest{ProductID: "p1", Quantity: 2})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resp.Cart.Items, 1)
		assert.Equal(t, 24.99, resp.Cart.Items[0].UnitPrice)
		assert.InDelta(t, 49.98, resp.Subtotal, 0.0001)
		mockCarts.AssertExpectations(t)
	})

	t.Run("Success - Variant Price Wins", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		mockProducts := &mockProductRepo{}
		cartService := service.NewCartService(mockCarts, mockProducts)

		product := activeProduct("p1", 24.99, 10)
		product.Variants = []models.Variant{{ID: "v1", Name: "Large", Price: 29.99, Quantity: 5}}

		mockProducts.On("GetProductByID", ctx, "p1").Return(product, nil).Once()
		mockCarts.On("GetCartByUserID", ctx, "u1").Return(nil, repository.ErrNotFound).Once()
		mockCarts.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		// Act
		resp, err := cartService.AddItem(ctx, "u1", &models.AddCartItemRequest{ProductID: "p1", VariantID: "v1", Quantity: 1})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 29.99, resp.Cart.Items[0].UnitPrice)
	})

	t.Run("Failure - Insufficient Stock", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		mockProducts := &mockProductRepo{}
		cartService := service.NewCartService(mockCarts, mockProducts)

		mockProducts.On("GetProductByID", ctx, "p1").Return(activeProduct("p1", 24.99, 1), nil).Once()
		mockCarts.On("GetCartByUserID", ctx, "u1").Return(nil, repository.ErrNotFound).Once()

		// Act
		resp, err := cartService.AddItem(ctx, "u1", &models.AddCartItemRequest{ProductID: "p1", Quantity: 3})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		mockCarts.AssertNotCalled(t, "UpsertCart")
	})

	t.Run("Failure - Repeated Adds Cannot Exceed Stock", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		mockProducts := &mockProductRepo{}
		cartService := service.NewCartService(mockCarts, mockProducts)

		cart := &models.Cart{ID: "c1", UserID: "u1"}
		cart.AddItem("p1", "", 2, 24.99, time.Now())

		mockProducts.On("GetProductByID", ctx, "p1").Return(activeProduct("p1", 24.99, 3), nil).Once()
		mockCarts.On("GetCartByUserID", ctx, "u1").Return(cart, nil).Once()

		// Act
		resp, err := cartService.AddItem(ctx, "u1", &models.AddCartItemRequest{ProductID: "p1", Quantity: 2})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		mockCarts.AssertNotCalled(t, "UpsertCart")
	})

	t.Run("Success - Merge Up To Available Stock", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		mockProducts := &mockProductRepo{}
		cartService := service.NewCartService(mockCarts, mockProducts)

		cart := &models.Cart{ID: "c1", UserID: "u1"}
		cart.AddItem("p1", "", 1, 24.99, time.Now())

		mockProducts.On("GetProductByID", ctx, "p1").Return(activeProduct("p1", 24.99, 3), nil).Once()
		mockCarts.On("GetCartByUserID", ctx, "u1").Return(cart, nil).Once()
		mockCarts.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		// Act
		resp, err := cartService.AddItem(ctx, "u1", &models.AddCartItemRequest{ProductID: "p1", Quantity: 2})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resp.Cart.Items, 1)
		assert.Equal(t, 3, resp.Cart.Items[0].Quantity)
		mockCarts.AssertExpectations(t)
	})

	t.Run("Failure - Inactive Product", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		mockProducts := &mockProductRepo{}
		cartService := service.NewCartService(mockCarts, mockProducts)

		product := activeProduct("p1", 24.99, 10)
		product.Status = models.ProductStatusInactive

		mockProducts.On("GetProductByID", ctx, "p1").Return(product, nil).Once()

		// Act
		resp, err := cartService.AddItem(ctx, "u1", &models.AddCartItemRequest{ProductID: "p1", Quantity: 1})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})

	t.Run("Failure - Unknown Variant", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		mockProducts := &mockProductRepo{}
		cartService := service.NewCartService(mockCarts, mockProducts)

		mockProducts.On("GetProductByID", ctx, "p1").Return(activeProduct("p1", 24.99, 10), nil).Once()

		// Act
		resp, err := cartService.AddItem(ctx, "u1", &models.AddCartItemRequest{ProductID: "p1", VariantID: "ghost", Quantity: 1})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Removing an absent line still succeeds", func(t *testing.T) {
		// Arrange
		mockCarts := &mockCartRepo{}
		cartService := service.NewCartService(mockCarts, &mockProductRepo{})

		cart := &models.Cart{ID: "c1", UserID: "u1"}
		cart.AddItem("p1", "", 1, 10, time.Now())

		mockCarts.On("GetCartByUserID", ctx, "u1").Return(cart, nil).Once()
		mockCarts.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		// Act
		resp, err := cartService.RemoveItem(ctx, "u1", &models.RemoveCartItemRequest{ProductID: "never-added"})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resp.Cart.Items, 1)
	})
}

func TestCartService_ClearCart(t *testing.T) {
	ctx := context.Background()

	// Arrange
	mockCarts := &mockCartRepo{}
	cartService := service.NewCartService(mockCarts, &mockProductRepo{})

	cart := &models.Cart{ID: "c1", UserID: "u1"}
	cart.AddItem("p1", "", 2, 10, time.Now())

	mockCarts.On("GetCartByUserID", ctx, "u1").Return(cart, nil).Once()
	mockCarts.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

	// Act
	resp, err := cartService.ClearCart(ctx, "u1")

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, resp.Cart.Items)
	assert.Zero(t, resp.TotalItems)
	mockCarts.AssertExpectations(t)
}
