package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopmono/shopmono/internal/api/middleware"
	"github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/models"
	service "github.com/shopmono/shopmono/internal/services"
	"github.com/shopmono/shopmono/internal/utils"
	"github.com/shopmono/shopmono/internal/utils/response"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: validator.New()}
}

func (h *CategoryHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Warn("Category creation failed",
				slog.String("name", req.Name),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.String("categoryId", category.ID))
		response.Success(w, http.StatusCreated, "Category created", category)
	}
}

// Get resolves the path value as an id or a slug.
func (h *CategoryHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		identifier := r.PathValue("id")
		if identifier == "" {
			response.Error(w, errors.BadRequestError("Category ID is required"))
			return
		}

		category, err := h.categoryService.GetCategory(r.Context(), identifier)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Category fetched", category)
	}
}

func (h *CategoryHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())

		includeInactive := r.URL.Query().Get("include_inactive") == "true" &&
			claims != nil && claims.Role == models.RoleAdmin

		categories, err := h.categoryService.ListCategories(r.Context(), includeInactive)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Categories fetched", categories)
	}
}

func (h *CategoryHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Category ID is required"))
			return
		}

		var req models.UpdateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Category update failed",
				slog.String("categoryId", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category updated", slog.String("categoryId", id))
		response.Success(w, http.StatusOK, "Category updated", category)
	}
}

func (h *CategoryHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Category ID is required"))
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			logger.Warn("Category deletion failed",
				slog.String("categoryId", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category deleted", slog.String("categoryId", id))
		response.Success(w, http.StatusOK, "Category deleted", nil)
	}
}
