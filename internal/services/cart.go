package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/models"
	repository "github.com/shopmono/shopmono/internal/repositories"
)

type CartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		repo:        repo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart, creating an empty one lazily on first
// access so the read path never fails with "no cart yet".
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartResponse, error) {

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.respond(cart), nil
}

func (s *CartService) AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*models.CartResponse, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, apperrors.NotFoundError("Product not found").WithError(err)
	}

	if product.Status != models.ProductStatusActive {
		return nil, apperrors.BadRequestError("Product is not available")
	}

	unitPrice := product.Price
	available := product.Quantity
	trackQuantity := product.TrackQuantity

	if req.VariantID != "" {
		variant := product.VariantByID(req.VariantID)
		if variant == nil {
			return nil, apperrors.NotFoundError("Product variant not found")
		}

		if variant.Price > 0 {
			unitPrice = variant.Price
		}

		available = variant.Quantity
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The line the add merges into counts against stock too, otherwise
	// repeated adds walk past the available quantity.
	inCart := cart.ItemQuantity(req.ProductID, req.VariantID)

	if trackQuantity && available < int64(inCart+req.Quantity) {
		return nil, apperrors.BadRequestError("Insufficient stock for this product")
	}

	cart.AddItem(req.ProductID, req.VariantID, req.Quantity, unitPrice, time.Now())

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to save cart").WithError(err)
	}

	return s.respond(cart), nil
}

// UpdateItemQuantity sets the quantity for one line. Zero or negative
// removes the line; a missing line is left alone rather than rejected.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID string, req *models.UpdateCartItemRequest) (*models.CartResponse, error) {

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.UpdateItemQuantity(req.ProductID, req.VariantID, req.Quantity)

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to save cart").WithError(err)
	}

	return s.respond(cart), nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, req *models.RemoveCartItemRequest) (*models.CartResponse, error) {

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(req.ProductID, req.VariantID)

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to save cart").WithError(err)
	}

	return s.respond(cart), nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (*models.CartResponse, error) {

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Clear()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to save cart").WithError(err)
	}

	return s.respond(cart), nil
}

func (s *CartService) loadOrCreate(ctx context.Context, userID string) (*models.Cart, error) {

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	now := time.Now()

	return &models.Cart{
		ID:           uuid.NewString(),
		UserID:       userID,
		Items:        []models.CartItem{},
		SessionToken: uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *CartService) respond(cart *models.Cart) *models.CartResponse {
	return &models.CartResponse{
		Cart:       cart,
		TotalItems: cart.TotalItems(),
		Subtotal:   cart.Subtotal(),
	}
}
