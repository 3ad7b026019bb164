package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopmono/shopmono/internal/api/middleware"
	"github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/models"
	service "github.com/shopmono/shopmono/internal/services"
	"github.com/shopmono/shopmono/internal/utils"
	"github.com/shopmono/shopmono/internal/utils/response"
)

type ProductHandler struct {
	productService *service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Warn("Product creation failed",
				slog.String("sku", req.SKU),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created",
			slog.String("productId", product.ID),
			slog.String("sku", product.SKU))
		response.Success(w, http.StatusCreated, "Product created", product)
	}
}

// Get resolves the path value as an id or a slug. Non-active products are
// only visible to admins.
func (h *ProductHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		identifier := r.PathValue("id")
		if identifier == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		product, err := h.productService.GetProduct(r.Context(), identifier, isAdminRequest(r))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Product fetched", product)
	}
}

func (h *ProductHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		query := parseListQuery(r)

		products, total, err := h.productService.ListProducts(r.Context(), query, isAdminRequest(r))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Products fetched",
			models.NewPaginatedResponse(products, total, query.Page, query.Limit))
	}
}

func (h *ProductHandler) Featured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		products, err := h.productService.ListFeatured(r.Context(), limit)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Featured products fetched", products)
	}
}

func (h *ProductHandler) Related() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		products, err := h.productService.ListRelated(r.Context(), id, limit)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Related products fetched", products)
	}
}

func (h *ProductHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Product update failed",
				slog.String("productId", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.String("productId", id))
		response.Success(w, http.StatusOK, "Product updated", product)
	}
}

func (h *ProductHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Product ID is required"))
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Warn("Product deletion failed",
				slog.String("productId", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.String("productId", id))
		response.Success(w, http.StatusOK, "Product deleted", nil)
	}
}

func isAdminRequest(r *http.Request) bool {
	claims := middleware.ClaimsFromContext(r.Context())

	return claims != nil && claims.Role == models.RoleAdmin
}

// parseListQuery maps the catalog query params onto the listing filters.
// Unparseable numbers fall back to defaults rather than erroring.
func parseListQuery(r *http.Request) *models.ProductListQuery {
	q := r.URL.Query()

	query := &models.ProductListQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Status:   models.ProductStatus(q.Get("status")),
	}

	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.Limit, _ = strconv.Atoi(q.Get("limit"))

	// Both spellings are accepted; clients predating the snake_case params
	// send minPrice/maxPrice.
	if v, err := strconv.ParseFloat(firstQueryValue(q, "min_price", "minPrice"), 64); err == nil {
		query.MinPrice = &v
	}

	if v, err := strconv.ParseFloat(firstQueryValue(q, "max_price", "maxPrice"), 64); err == nil {
		query.MaxPrice = &v
	}

	if q.Has("featured") {
		featured := q.Get("featured") == "true"
		query.Featured = &featured
	}

	return query
}

func firstQueryValue(q url.Values, names ...string) string {
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}

	return ""
}
