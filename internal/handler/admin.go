package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/middleware"
	"github.com/flicky/gourmethub-api/internal/model"
	"github.com/flicky/gourmethub-api/internal/service"
)

// AdminHandler serves the back-office order endpoints. Routes are expected
// behind AuthMiddleware and AdminOnly.
type AdminHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

func NewAdminHandler(orderService *service.OrderService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{orderService: orderService, log: log}
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	orders, total, err := h.orderService.ListAll(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		internalError(c, h.log, "Failed to fetch orders", err)
		return
	}
	ok(c, http.StatusOK, dto.OrderListResponse{
		Orders: dto.NewOrderResponses(orders),
		Total:  total,
		Page:   req.Page,
		Limit:  req.Limit,
	})
}

func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	orderID, valid := paramID(c, "id", "order")
	if !valid {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, status, middleware.GetUserID(c))
	if err != nil {
		orderError(c, h.log, err, "Failed to update order status")
		return
	}
	ok(c, http.StatusOK, dto.NewOrderResponse(order))
}

func (h *AdminHandler) History(c *gin.Context) {
	orderID, valid := paramID(c, "id", "order")
	if !valid {
		return
	}

	events, err := h.orderService.History(c.Request.Context(), orderID)
	if err != nil {
		orderError(c, h.log, err, "Failed to fetch order history")
		return
	}
	ok(c, http.StatusOK, dto.NewOrderEventResponses(events))
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		internalError(c, h.log, "Failed to fetch stats", err)
		return
	}
	ok(c, http.StatusOK, dto.NewStatsResponse(stats))
}
