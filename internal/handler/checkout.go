package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/gourmethub-api/internal/checkout"
	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/middleware"
	"github.com/flicky/gourmethub-api/internal/service"
)

type CheckoutHandler struct {
	svc       *service.CheckoutService
	loginPath string
	cartPath  string
	log       *slog.Logger
}

func NewCheckoutHandler(svc *service.CheckoutService, loginPath, cartPath string, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, loginPath: loginPath, cartPath: cartPath, log: log}
}

func newCheckoutResponse(state *service.CheckoutState) dto.CheckoutResponse {
	subtotal := state.Cart.Subtotal()
	return dto.CheckoutResponse{
		Step:     state.Flow.Step,
		Shipping: state.Flow.Shipping,
		Errors:   state.Flow.Errors,
		OrderID:  state.Flow.OrderID,
		Items:    state.Cart.Items(),
		Totals:   checkout.ComputeTotals(subtotal),
	}
}

func (h *CheckoutHandler) redirect(c *gin.Context, to checkout.Redirect) bool {
	switch to {
	case checkout.RedirectLogin:
		c.Redirect(http.StatusSeeOther, h.loginPath)
	case checkout.RedirectCart:
		c.Redirect(http.StatusSeeOther, h.cartPath)
	default:
		return false
	}
	return true
}

// stepError maps flow errors shared by every checkout action.
func (h *CheckoutHandler) stepError(c *gin.Context, err error, msg string) {
	if validationFailed(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		h.redirect(c, checkout.RedirectCart)
	case errors.Is(err, checkout.ErrWrongStep):
		fail(c, http.StatusConflict, err.Error())
	default:
		internalError(c, h.log, msg, err)
	}
}

func (h *CheckoutHandler) View(c *gin.Context) {
	state, err := h.svc.View(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		internalError(c, h.log, "Failed to load checkout", err)
		return
	}
	if h.redirect(c, state.Redirect) {
		return
	}
	ok(c, http.StatusOK, newCheckoutResponse(state))
}

func (h *CheckoutHandler) SubmitShipping(c *gin.Context) {
	var req checkout.ShippingInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	state, err := h.svc.SubmitShipping(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.stepError(c, err, "Failed to save shipping information")
		return
	}
	ok(c, http.StatusOK, newCheckoutResponse(state))
}

func (h *CheckoutHandler) EditShipping(c *gin.Context) {
	state, err := h.svc.EditShipping(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.stepError(c, err, "Failed to update checkout")
		return
	}
	ok(c, http.StatusOK, newCheckoutResponse(state))
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	state, err := h.svc.PlaceOrder(c.Request.Context(), middleware.GetUserID(c), middleware.GetUserEmail(c))
	if err != nil {
		h.stepError(c, err, "Failed to place order")
		return
	}
	ok(c, http.StatusCreated, newCheckoutResponse(state))
}
