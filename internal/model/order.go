package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/gourmethub-api/internal/validation"
)

// Validate checks the constraints an order must satisfy before it is stored.
func (o *Order) Validate() validation.Errors {
	errs := validation.Errors{}

	errs.Check(o.UserID != uuid.Nil, "userId", validation.MsgRequired)
	errs.Required("userEmail", o.UserEmail)
	errs.Check(len(o.Items) > 0, "orderItems", "Order must contain at least one item")
	for i, item := range o.Items {
		field := fmt.Sprintf("orderItems[%d]", i)
		switch {
		case item.Title == "" || item.Slug == "":
			errs.Add(field, "Item title and slug are required")
		case item.Quantity < 1:
			errs.Add(field, "Quantity must be at least 1")
		case item.Price.IsNegative():
			errs.Add(field, "Price cannot be negative")
		}
	}

	a := o.ShippingAddress
	errs.Required("shippingAddress.firstName", a.FirstName)
	errs.Required("shippingAddress.lastName", a.LastName)
	errs.Required("shippingAddress.street", a.Street)
	errs.Required("shippingAddress.city", a.City)
	errs.Required("shippingAddress.state", a.State)
	errs.Required("shippingAddress.zipCode", a.ZipCode)
	errs.Required("shippingAddress.country", a.Country)
	errs.Required("shippingAddress.phone", a.Phone)

	for field, v := range map[string]decimal.Decimal{
		"itemsPrice":    o.ItemsPrice,
		"shippingPrice": o.ShippingPrice,
		"taxPrice":      o.TaxPrice,
		"totalPrice":    o.TotalPrice,
	} {
		errs.Check(!v.IsNegative(), field, "Amount cannot be negative")
	}
	if _, err := ParseOrderStatus(string(o.Status)); err != nil {
		errs.Add("status", err.Error())
	}
	errs.Check(o.PaymentMethod == PaymentMethodCOD, "paymentMethod", "Only cash on delivery is supported")
	return errs
}

// TransitionTo moves the order to next, stamping delivery when next is
// delivered. Illegal edges return ErrInvalidTransition.
func (o *Order) TransitionTo(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	if next == OrderStatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	return nil
}
