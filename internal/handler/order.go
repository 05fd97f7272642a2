package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/middleware"
	"github.com/flicky/gourmethub-api/internal/model"
	"github.com/flicky/gourmethub-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, log: log}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	items := make([]model.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		items = append(items, model.OrderItem(it))
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		UserID:          middleware.GetUserID(c),
		UserEmail:       middleware.GetUserEmail(c),
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TaxPrice:        req.TaxPrice,
		TotalPrice:      req.TotalPrice,
		Notes:           req.Notes,
	})
	if err != nil {
		if validationFailed(c, err) {
			return
		}
		if errors.Is(err, service.ErrEmptyCart) {
			fail(c, http.StatusBadRequest, "No order items")
			return
		}
		internalError(c, h.log, "Failed to create order", err)
		return
	}
	ok(c, http.StatusCreated, dto.NewOrderResponse(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListByUserID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		internalError(c, h.log, "Failed to fetch orders", err)
		return
	}

	items := dto.NewOrderResponses(orders)
	ok(c, http.StatusOK, dto.OrderListResponse{Orders: items, Total: len(items)})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, valid := paramID(c, "id", "order")
	if !valid {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		orderError(c, h.log, err, "Failed to fetch order")
		return
	}
	ok(c, http.StatusOK, dto.NewOrderResponse(order))
}

func orderError(c *gin.Context, log *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		fail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrOrderAccessDenied):
		fail(c, http.StatusForbidden, "Not authorized to view this order")
	case errors.Is(err, model.ErrInvalidTransition):
		fail(c, http.StatusConflict, err.Error())
	default:
		internalError(c, log, msg, err)
	}
}
