package service_test

import (
	"context"
	"testing"

	appErrors "github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/models"
	repository "github.com/shopmono/shopmono/internal/repositories"
	service "github.com/shopmono/shopmono/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Slug Derived From Name", func(t *testing.T) {
		// Arrange
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("CreateCategory", ctx, mock.MatchedBy(func(c *models.Category) bool {
			return c.Slug == "home-office" && c.IsActive
		})).Return(nil).Once()

		// Act
		category, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{Name: "Home & Office"})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "home-office", category.Slug)
		assert.NotEmpty(t, category.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Explicit Slug Kept", func(t *testing.T) {
		// Arrange
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("CreateCategory", ctx, mock.AnythingOfType("*models.Category")).Return(nil).Once()

		// Act
		category, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{
			Name: "Home & Office",
			Slug: "workspace",
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "workspace", category.Slug)
	})

	t.Run("Failure - Duplicate Slug", func(t *testing.T) {
		// Arrange
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("CreateCategory", ctx, mock.AnythingOfType("*models.Category")).Return(repository.ErrDuplicateKey).Once()

		// Act
		category, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{Name: "Home & Office"})

		// Assert
		assert.Nil(t, category)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}

func TestCategoryService_GetCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("By id", func(t *testing.T) {
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		id := uuid.NewString()
		mockRepo.On("GetCategoryByID", ctx, id).Return(&models.Category{ID: id}, nil).Once()

		category, err := categoryService.GetCategory(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, id, category.ID)
		mockRepo.AssertNotCalled(t, "GetCategoryBySlug")
	})

	t.Run("By slug", func(t *testing.T) {
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("GetCategoryBySlug", ctx, "peripherals").Return(&models.Category{Slug: "peripherals"}, nil).Once()

		category, err := categoryService.GetCategory(ctx, "peripherals")

		assert.NoError(t, err)
		assert.Equal(t, "peripherals", category.Slug)
		mockRepo.AssertNotCalled(t, "GetCategoryByID")
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("GetCategoryBySlug", ctx, "ghost").Return(nil, repository.ErrNotFound).Once()

		category, err := categoryService.GetCategory(ctx, "ghost")

		assert.Nil(t, category)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial update keeps untouched fields", func(t *testing.T) {
		// Arrange
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		existing := &models.Category{ID: "cat1", Name: "Peripherals", Description: "Old", IsActive: true}

		mockRepo.On("GetCategoryByID", ctx, "cat1").Return(existing, nil).Once()
		mockRepo.On("UpdateCategory", ctx, mock.AnythingOfType("*models.Category")).Return(nil).Once()

		newDescription := "New description"

		// Act
		category, err := categoryService.UpdateCategory(ctx, "cat1", &models.UpdateCategoryRequest{
			Description: &newDescription,
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "Peripherals", category.Name)
		assert.Equal(t, "New description", category.Description)
		assert.True(t, category.IsActive)
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		mockRepo := &mockCategoryRepo{}
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("DeleteCategory", ctx, "missing").Return(repository.ErrNotFound).Once()

		err := categoryService.DeleteCategory(ctx, "missing")

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}
