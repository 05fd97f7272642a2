package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/gourmethub-api/internal/cart"
	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/middleware"
	"github.com/flicky/gourmethub-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
	log *slog.Logger
}

func NewCartHandler(svc *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

func (h *CartHandler) respond(c *gin.Context, store *cart.Store, err error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, service.ErrOutOfStock):
			fail(c, http.StatusConflict, "Product is out of stock")
		default:
			internalError(c, h.log, "Failed to update cart", err)
		}
		return
	}
	ok(c, http.StatusOK, dto.NewCartResponse(store))
}

func (h *CartHandler) GetCart(c *gin.Context) {
	store, err := h.svc.GetCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		internalError(c, h.log, "Failed to fetch cart", err)
		return
	}
	ok(c, http.StatusOK, dto.NewCartResponse(store))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	store, err := h.svc.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID, req.Quantity)
	h.respond(c, store, err)
}

// UpdateItem sets a line's quantity. Zero or less removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	store, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"), req.Quantity)
	h.respond(c, store, err)
}

func (h *CartHandler) DeleteItem(c *gin.Context) {
	store, err := h.svc.RemoveItem(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"))
	h.respond(c, store, err)
}

func (h *CartHandler) Clear(c *gin.Context) {
	store, err := h.svc.Clear(c.Request.Context(), middleware.GetUserID(c))
	h.respond(c, store, err)
}

func (h *CartHandler) Toggle(c *gin.Context) {
	store, err := h.svc.Toggle(c.Request.Context(), middleware.GetUserID(c))
	h.respond(c, store, err)
}

func (h *CartHandler) Open(c *gin.Context) {
	store, err := h.svc.Open(c.Request.Context(), middleware.GetUserID(c))
	h.respond(c, store, err)
}

func (h *CartHandler) Close(c *gin.Context) {
	store, err := h.svc.Close(c.Request.Context(), middleware.GetUserID(c))
	h.respond(c, store, err)
}
