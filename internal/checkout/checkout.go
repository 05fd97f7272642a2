// Package checkout implements the shipping -> review -> confirmation flow.
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flicky/gourmethub-api/internal/cart"
	"github.com/flicky/gourmethub-api/internal/validation"
)

type Step string

const (
	StepShipping     Step = "shipping"
	StepReview       Step = "review"
	StepConfirmation Step = "confirmation"
)

const DefaultCountry = "United States"

const minPhoneLen = 10

var (
	FreeShippingOver = decimal.NewFromInt(50)
	FlatShippingFee  = decimal.RequireFromString("5.99")
	TaxRate          = decimal.RequireFromString("0.08")
)

var (
	ErrWrongStep  = errors.New("action not allowed in this checkout step")
	ErrEmptyCart  = errors.New("cart is empty")
	ErrNoPlacer   = errors.New("no order placer configured")
	errOrderField = "order"
)

type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// Totals is the price breakdown shown on review and sent with the order.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals applies free shipping strictly above FreeShippingOver and a
// flat TaxRate rounded to cents.
func ComputeTotals(subtotal decimal.Decimal) Totals {
	shipping := FlatShippingFee
	if subtotal.GreaterThan(FreeShippingOver) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// ValidateShipping returns per-field messages for missing or malformed input.
func ValidateShipping(info ShippingInfo) validation.Errors {
	errs := validation.Errors{}
	errs.Required("firstName", info.FirstName)
	errs.Required("lastName", info.LastName)
	errs.Required("street", info.Street)
	errs.Required("city", info.City)
	errs.Required("state", info.State)
	errs.Required("zipCode", info.ZipCode)
	errs.Required("phone", info.Phone)
	if len(strings.TrimSpace(info.Phone)) < minPhoneLen {
		errs.Set("phone", validation.MsgInvalidPhone)
	}
	return errs
}

// PlaceOrderRequest carries the cart snapshot and shipping data to the
// order placer.
type PlaceOrderRequest struct {
	Items    []cart.Item
	Shipping ShippingInfo
	Totals   Totals
}

// OrderPlacer persists an order and returns its identifier.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error)
}

// OrderPlacerFunc adapts a function to OrderPlacer.
type OrderPlacerFunc func(ctx context.Context, req PlaceOrderRequest) (string, error)

func (f OrderPlacerFunc) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	return f(ctx, req)
}

type Flow struct {
	Step     Step              `json:"step"`
	Shipping ShippingInfo      `json:"shipping"`
	Errors   validation.Errors `json:"errors,omitempty"`
	OrderID  string            `json:"orderId,omitempty"`
}

func NewFlow() *Flow {
	return &Flow{
		Step:     StepShipping,
		Shipping: ShippingInfo{Country: DefaultCountry},
	}
}

// SubmitShipping stores info and advances to review when it validates.
// On failure the returned error is the validation.Errors and the step does
// not change.
func (f *Flow) SubmitShipping(info ShippingInfo) error {
	if f.Step != StepShipping {
		return ErrWrongStep
	}
	if strings.TrimSpace(info.Country) == "" {
		info.Country = DefaultCountry
	}
	f.Shipping = info

	errs := ValidateShipping(info)
	if len(errs) > 0 {
		f.Errors = errs
		return errs
	}
	f.Errors = nil
	f.Step = StepReview
	return nil
}

// EditShipping returns from review to the shipping form.
func (f *Flow) EditShipping() error {
	if f.Step != StepReview {
		return ErrWrongStep
	}
	f.Step = StepShipping
	return nil
}

// PlaceOrder submits the review step. The cart is cleared only after the
// placer succeeds; on failure the flow stays in review.
func (f *Flow) PlaceOrder(ctx context.Context, placer OrderPlacer, store *cart.Store) error {
	if f.Step != StepReview {
		return ErrWrongStep
	}
	if placer == nil {
		return ErrNoPlacer
	}
	if store.IsEmpty() {
		return ErrEmptyCart
	}

	id, err := placer.PlaceOrder(ctx, PlaceOrderRequest{
		Items:    store.Items(),
		Shipping: f.Shipping,
		Totals:   ComputeTotals(store.Subtotal()),
	})
	if err != nil {
		f.Errors = validation.Errors{errOrderField: "Failed to place order"}
		return err
	}

	store.ClearCart()
	f.OrderID = id
	f.Errors = nil
	f.Step = StepConfirmation
	return nil
}

// Redirect names where a shopper is sent instead of entering checkout.
type Redirect string

const (
	RedirectNone  Redirect = ""
	RedirectLogin Redirect = "login"
	RedirectCart  Redirect = "cart"
)

// Guard decides whether checkout may be shown. Anonymous sessions go to
// login; an empty cart outside confirmation goes back to the cart.
func Guard(f *Flow, cartEmpty, authenticated bool) Redirect {
	if !authenticated {
		return RedirectLogin
	}
	if cartEmpty && (f == nil || f.Step != StepConfirmation) {
		return RedirectCart
	}
	return RedirectNone
}
