package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "organic-hass-avocados", Slugify("Organic Hass Avocados"))
	assert.Equal(t, "cr-me-fra-che-200g", Slugify("  Crème Fraîche (200g)!  "))
	assert.Equal(t, "", Slugify("***"))
}

func TestDiscountPercentage(t *testing.T) {
	assert.Equal(t, 17, DiscountPercentage(decimal.RequireFromString("5.99"), decimal.RequireFromString("4.99")))
	assert.Equal(t, 50, DiscountPercentage(decimal.NewFromInt(10), decimal.NewFromInt(5)))
	assert.Equal(t, 0, DiscountPercentage(decimal.NewFromInt(10), decimal.Zero))
	assert.Equal(t, 0, DiscountPercentage(decimal.Zero, decimal.NewFromInt(1)))
}

func TestProduct_AddReviewRecomputesRating(t *testing.T) {
	p := &Product{}
	p.AddReview(Review{Rating: 5})
	p.AddReview(Review{Rating: 4})
	p.AddReview(Review{Rating: 3})

	assert.Equal(t, 3, p.NumReviews)
	assert.InDelta(t, 4.0, p.Rating, 1e-9)

	p.AddReview(Review{Rating: 5})
	assert.InDelta(t, 4.25, p.Rating, 1e-9)
}

func TestProduct_EffectivePrice(t *testing.T) {
	p := &Product{Price: decimal.RequireFromString("5.99")}
	assert.True(t, p.EffectivePrice().Equal(decimal.RequireFromString("5.99")))

	p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("4.99"))
	assert.True(t, p.EffectivePrice().Equal(decimal.RequireFromString("4.99")))
}

func validProduct() *Product {
	p := &Product{
		Title:            "Sourdough Loaf",
		Description:      "Slow fermented",
		ShortDescription: "Crusty bread",
		Price:            decimal.RequireFromString("6.50"),
		Category:         CategoryBakery,
		Stock:            12,
	}
	p.Normalize()
	return p
}

func TestProduct_NormalizeDefaults(t *testing.T) {
	p := validProduct()
	assert.Equal(t, "sourdough-loaf", p.Slug)
	assert.Equal(t, []string{PlaceholderImage}, p.Images)
	assert.Equal(t, DefaultBrand, p.Brand)
	assert.Equal(t, UnitPiece, p.Unit)
	assert.Empty(t, p.Validate())
}

func TestProduct_Validate(t *testing.T) {
	p := validProduct()
	p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("6.50"))
	p.Category = "toys"
	p.Stock = -1
	p.Images = make([]string, 11)
	p.Allergens = []Allergen{"pollen"}

	errs := p.Validate()
	assert.Contains(t, errs, "discountPrice")
	assert.Contains(t, errs, "category")
	assert.Contains(t, errs, "stock")
	assert.Contains(t, errs, "images")
	assert.Contains(t, errs, "allergens")
}

func TestValidateReview(t *testing.T) {
	assert.Empty(t, ValidateReview(Review{UserID: "u", UserName: "Ann", Rating: 4, Comment: "Great"}))
	errs := ValidateReview(Review{UserID: "u", UserName: "Ann", Rating: 6})
	assert.Contains(t, errs, "rating")
	assert.Contains(t, errs, "comment")
}

func TestParseEnums(t *testing.T) {
	c, err := ParseCategory("dairy-eggs")
	require.NoError(t, err)
	assert.Equal(t, CategoryDairyEggs, c)

	_, err = ParseUnit("gallon")
	var unknown *UnknownValueError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "unit", unknown.Kind)

	s, err := ParseOrderStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, s)

	sort, err := ParseSortOption("")
	require.NoError(t, err)
	assert.Equal(t, SortPopular, sort)

	_, err = ParseSortOption("cheapest")
	assert.Error(t, err)

	_, err = ParseAllergens([]string{"nuts", "wood"})
	assert.Error(t, err)
}

func TestOrderStatus_TransitionTable(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestOrder_TransitionToDelivered(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := &Order{Status: OrderStatusShipped}

	require.NoError(t, o.TransitionTo(OrderStatusDelivered, now))
	assert.Equal(t, OrderStatusDelivered, o.Status)
	assert.True(t, o.IsDelivered)
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, now, *o.DeliveredAt)
}

func TestOrder_TransitionToOtherLeavesDelivery(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	require.NoError(t, o.TransitionTo(OrderStatusProcessing, time.Now()))
	assert.False(t, o.IsDelivered)
	assert.Nil(t, o.DeliveredAt)

	err := o.TransitionTo(OrderStatusDelivered, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, OrderStatusProcessing, o.Status)
}

func TestOrder_Validate(t *testing.T) {
	o := &Order{
		UserID:    uuid.New(),
		UserEmail: "a@b.co",
		Items: []OrderItem{
			{ProductID: uuid.New(), Title: "Milk", Slug: "milk", Price: decimal.NewFromInt(2), Quantity: 1},
		},
		ShippingAddress: ShippingAddress{
			FirstName: "A", LastName: "B", Street: "1 Rd", City: "X", State: "Y",
			ZipCode: "00000", Country: "United States", Phone: "1234567890",
		},
		PaymentMethod: PaymentMethodCOD,
		Status:        OrderStatusPending,
	}
	assert.Empty(t, o.Validate())

	o.Items = nil
	o.ShippingAddress.City = ""
	o.TotalPrice = decimal.NewFromInt(-1)
	errs := o.Validate()
	assert.Contains(t, errs, "orderItems")
	assert.Contains(t, errs, "shippingAddress.city")
	assert.Contains(t, errs, "totalPrice")
}
