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

type CategoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	slug := req.Slug
	if slug == "" {
		slug = models.Slugify(req.Name)
	}

	now := time.Now()

	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		IsActive:    true,
		SortOrder:   req.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.DuplicateEntryError("Category with this slug already exists")
		}

		return nil, apperrors.DatabaseError("Failed to create category").WithError(err)
	}

	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, identifier string) (*models.Category, error) {

	category, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, apperrors.NotFoundError("Category not found").WithError(err)
	}

	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, includeInactive bool) ([]*models.Category, error) {

	categories, err := s.repo.ListCategories(ctx, !includeInactive)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Category not found").WithError(err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	category.UpdatedAt = time.Now()

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, apperrors.DatabaseError("Failed to update category").WithError(err)
	}

	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundError("Category not found").WithError(err)
		}

		return apperrors.DatabaseError("Failed to delete category").WithError(err)
	}

	return nil
}

// findByIdentifier accepts either a document id or a slug.
func (s *CategoryService) findByIdentifier(ctx context.Context, identifier string) (*models.Category, error) {
	if err := uuid.Validate(identifier); err == nil {
		return s.repo.GetCategoryByID(ctx, identifier)
	}

	return s.repo.GetCategoryBySlug(ctx, identifier)
}
