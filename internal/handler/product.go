package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/middleware"
	"github.com/flicky/gourmethub-api/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	log            *slog.Logger
}

func NewProductHandler(productService *service.ProductService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, log: log}
}

func (h *ProductHandler) notFoundOr(c *gin.Context, err error, msg string) {
	if errors.Is(err, service.ErrProductNotFound) {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	internalError(c, h.log, msg, err)
}

func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.productService.List(c.Request.Context(), req)
	if err != nil {
		if validationFailed(c, err) {
			return
		}
		internalError(c, h.log, "Failed to fetch products", err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductHandler) Featured(c *gin.Context) {
	resp, err := h.productService.Featured(c.Request.Context())
	if err != nil {
		internalError(c, h.log, "Failed to fetch featured products", err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductHandler) Categories(c *gin.Context) {
	resp, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		internalError(c, h.log, "Failed to fetch categories", err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id, valid := paramID(c, "id", "product")
	if !valid {
		return
	}

	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "Failed to fetch product")
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	resp, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.notFoundOr(c, err, "Failed to fetch product")
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductHandler) Related(c *gin.Context) {
	id, valid := paramID(c, "id", "product")
	if !valid {
		return
	}

	resp, err := h.productService.Related(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "Failed to fetch related products")
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		if validationFailed(c, err) {
			return
		}
		if errors.Is(err, service.ErrDuplicateSlug) {
			fail(c, http.StatusConflict, err.Error())
			return
		}
		internalError(c, h.log, "Failed to create product", err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id", "product")
	if !valid {
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		if validationFailed(c, err) {
			return
		}
		if errors.Is(err, service.ErrDuplicateSlug) {
			fail(c, http.StatusConflict, err.Error())
			return
		}
		h.notFoundOr(c, err, "Failed to update product")
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, valid := paramID(c, "id", "product")
	if !valid {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOr(c, err, "Failed to delete product")
		return
	}
	okMessage(c, "Product removed")
}

func (h *ProductHandler) AddReview(c *gin.Context) {
	id, valid := paramID(c, "id", "product")
	if !valid {
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.productService.AddReview(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserName(c), req)
	if err != nil {
		if validationFailed(c, err) {
			return
		}
		h.notFoundOr(c, err, "Failed to add review")
		return
	}
	ok(c, http.StatusCreated, resp)
}
