package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopmono/shopmono/internal/api/middleware"
	"github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/metrics"
	"github.com/shopmono/shopmono/internal/models"
	service "github.com/shopmono/shopmono/internal/services"
	"github.com/shopmono/shopmono/internal/utils"
	"github.com/shopmono/shopmono/internal/utils/response"
)

type OrderHandler struct {
	orderService *service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

func (h *OrderHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Order creation failed",
				slog.String("userId", claims.UserID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		metrics.OrderPlaced()

		logger.Info("Order placed",
			slog.String("orderId", order.ID),
			slog.String("orderNumber", order.OrderNumber),
			slog.String("userId", claims.UserID))
		response.Success(w, http.StatusCreated, "Order placed", order)
	}
}

func (h *OrderHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), id, claims.UserID, claims.Role == models.RoleAdmin)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Order fetched", order)
	}
}

func (h *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		orders, total, err := h.orderService.ListOrders(r.Context(), claims.UserID, page, limit)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Orders fetched",
			models.NewPaginatedResponse(orders, total, page, limit))
	}
}

func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdateStatus(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Order status update failed",
				slog.String("orderId", id),
				slog.String("status", string(req.Status)),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated",
			slog.String("orderId", id),
			slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, "Order status updated", order)
	}
}

func (h *OrderHandler) UpdatePaymentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		var req models.UpdatePaymentStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdatePaymentStatus(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Payment status update failed",
				slog.String("orderId", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Payment status updated",
			slog.String("orderId", id),
			slog.String("paymentStatus", string(req.PaymentStatus)))
		response.Success(w, http.StatusOK, "Payment status updated", order)
	}
}

func (h *OrderHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		order, err := h.orderService.CancelOrder(r.Context(), id, claims.UserID, claims.Role == models.RoleAdmin)
		if err != nil {
			logger.Warn("Order cancellation failed",
				slog.String("orderId", id),
				slog.String("userId", claims.UserID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order cancelled",
			slog.String("orderId", id),
			slog.String("userId", claims.UserID))
		response.Success(w, http.StatusOK, "Order cancelled", order)
	}
}
