package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopmono/shopmono/internal/cache"
	apperrors "github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/models"
	repository "github.com/shopmono/shopmono/internal/repositories"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPageSize    = 20
	maxPageSize        = 100
	featuredLimit      = 10
	relatedLimit       = 6
	productCachePrefix = "product:"
)

type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        cache.Cache
	sanitizer    *bluemonday.Policy
	sfg          singleflight.Group // prevents cache stampede on hot lookups
}

func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, productCache cache.Cache) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		cache:        productCache,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))

	if existing, _ := s.repo.GetProductBySKU(ctx, sku); existing != nil {
		return nil, apperrors.DuplicateEntryError("Product with this SKU already exists")
	}

	category, err := s.categoryRepo.GetCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, apperrors.BadRequestError("Invalid category").WithError(err)
	}

	slug := req.Slug
	if slug == "" {
		slug = models.Slugify(req.Name)
	}

	status := models.ProductStatusActive
	if req.Status != "" {
		status = models.ProductStatus(req.Status)
	}

	now := time.Now()

	product := &models.Product{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Slug:             slug,
		Description:      s.sanitizer.Sanitize(req.Description),
		ShortDescription: s.sanitizer.Sanitize(req.ShortDescription),
		Price:            req.Price,
		ComparePrice:     req.ComparePrice,
		Cost:             req.Cost,
		SKU:              sku,
		Barcode:          req.Barcode,
		TrackQuantity:    true,
		Quantity:         req.Quantity,
		Weight:           req.Weight,
		Dimensions:       req.Dimensions,
		CategoryID:       req.CategoryID,
		Images:           req.Images,
		Tags:             req.Tags,
		Variants:         req.Variants,
		SEO:              req.SEO,
		Status:           status,
		Featured:         req.Featured,
		RequiresShipping: true,
		Taxable:          true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if req.TrackQuantity != nil {
		product.TrackQuantity = *req.TrackQuantity
	}
	if req.RequiresShipping != nil {
		product.RequiresShipping = *req.RequiresShipping
	}
	if req.Taxable != nil {
		product.Taxable = *req.Taxable
	}

	for i := range product.Variants {
		if product.Variants[i].ID == "" {
			product.Variants[i].ID = uuid.NewString()
		}

		product.Variants[i].SKU = strings.ToUpper(strings.TrimSpace(product.Variants[i].SKU))
	}

	product.NormalizeImages()

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.DuplicateEntryError("Product with this SKU or slug already exists")
		}

		return nil, apperrors.DatabaseError("Failed to create product").WithError(err)
	}

	product.Category = category

	return product, nil
}

// GetProduct resolves by id or slug. Non-admin callers only see active
// products; a non-active product is reported as not found, not as
// forbidden.
func (s *ProductService) GetProduct(ctx context.Context, identifier string, isAdmin bool) (*models.Product, error) {

	product, err := s.lookupCached(ctx, identifier)
	if err != nil {
		return nil, apperrors.NotFoundError("Product not found").WithError(err)
	}

	if product.Status != models.ProductStatusActive && !isAdmin {
		return nil, apperrors.NotFoundError("Product not available")
	}

	s.attachCategory(ctx, product)

	return product, nil
}

func (s *ProductService) lookupCached(ctx context.Context, identifier string) (*models.Product, error) {
	v, err, _ := s.sfg.Do(identifier, func() (any, error) {

		key := productCachePrefix + identifier

		cached := &models.Product{}

		found, err := s.cache.Get(ctx, key, cached)
		if err != nil {
			slog.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		if found {
			return cached, nil
		}

		product, err := s.findByIdentifier(ctx, identifier)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, key, product, 0); err != nil {
			slog.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		return product, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Product), nil
}

func (s *ProductService) findByIdentifier(ctx context.Context, identifier string) (*models.Product, error) {
	if err := uuid.Validate(identifier); err == nil {
		return s.repo.GetProductByID(ctx, identifier)
	}

	return s.repo.GetProductBySlug(ctx, identifier)
}

// ListProducts applies the catalog filters with store-side pagination.
// Anonymous callers are pinned to active products regardless of the
// requested status filter.
func (s *ProductService) ListProducts(ctx context.Context, query *models.ProductListQuery, isAdmin bool) ([]*models.Product, int, error) {

	if query.Page < 1 {
		query.Page = 1
	}

	if query.Limit < 1 || query.Limit > maxPageSize {
		query.Limit = defaultPageSize
	}

	if !isAdmin {
		query.Status = models.ProductStatusActive
	} else if query.Status == "" {
		query.Status = models.ProductStatusActive
	}

	products, total, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *ProductService) ListFeatured(ctx context.Context, limit int) ([]*models.Product, error) {

	if limit < 1 || limit > maxPageSize {
		limit = featuredLimit
	}

	products, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch featured products").WithError(err)
	}

	return products, nil
}

func (s *ProductService) ListRelated(ctx context.Context, id string, limit int) ([]*models.Product, error) {

	if limit < 1 || limit > maxPageSize {
		limit = relatedLimit
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Product not found").WithError(err)
	}

	products, err := s.repo.ListRelated(ctx, product.CategoryID, product.ID, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch related products").WithError(err)
	}

	return products, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Product not found").WithError(err)
	}

	if req.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*req.SKU))
		if sku != product.SKU {
			if existing, _ := s.repo.GetProductBySKU(ctx, sku); existing != nil {
				return nil, apperrors.DuplicateEntryError("Product with this SKU already exists")
			}

			product.SKU = sku
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, apperrors.BadRequestError("Invalid category").WithError(err)
		}

		product.CategoryID = *req.CategoryID
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.ShortDescription != nil {
		product.ShortDescription = s.sanitizer.Sanitize(*req.ShortDescription)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ComparePrice != nil {
		product.ComparePrice = *req.ComparePrice
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.TrackQuantity != nil {
		product.TrackQuantity = *req.TrackQuantity
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Weight != nil {
		product.Weight = *req.Weight
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.Variants != nil {
		product.Variants = req.Variants
		for i := range product.Variants {
			if product.Variants[i].ID == "" {
				product.Variants[i].ID = uuid.NewString()
			}
		}
	}
	if req.SEO != nil {
		product.SEO = req.SEO
	}
	if req.Status != nil {
		product.Status = models.ProductStatus(*req.Status)
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.RequiresShipping != nil {
		product.RequiresShipping = *req.RequiresShipping
	}
	if req.Taxable != nil {
		product.Taxable = *req.Taxable
	}

	product.NormalizeImages()
	product.UpdatedAt = time.Now()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.DuplicateEntryError("Product with this SKU or slug already exists")
		}

		return nil, apperrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, product)

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return apperrors.NotFoundError("Product not found").WithError(err)
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return apperrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, product)

	return nil
}

func (s *ProductService) invalidate(ctx context.Context, product *models.Product) {
	keys := []string{
		productCachePrefix + product.ID,
		productCachePrefix + product.Slug,
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.Warn("Product cache invalidation failed", slog.String("productId", product.ID), slog.String("error", err.Error()))
	}
}

func (s *ProductService) attachCategory(ctx context.Context, product *models.Product) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, product.CategoryID)
	if err != nil {
		slog.Debug("Category lookup failed", slog.String("categoryId", product.CategoryID), slog.String("error", fmt.Sprintf("%v", err)))
		return
	}

	product.Category = category
}
