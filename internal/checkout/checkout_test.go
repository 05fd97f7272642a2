package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/gourmethub-api/internal/cart"
	"github.com/flicky/gourmethub-api/internal/validation"
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		FirstName: "A", LastName: "B", Street: "1 Rd", City: "X",
		State: "Y", ZipCode: "00000", Phone: "1234567890",
	}
}

func cartWith(price string, qty int) *cart.Store {
	s := cart.New()
	s.AddItem(cart.Candidate{
		ProductID: "p1", Title: "Eggs", Slug: "eggs", Image: "/eggs.jpg",
		Price: decimal.RequireFromString(price), Quantity: qty, MaxQuantity: 10,
	})
	return s
}

type recordingPlacer struct {
	req PlaceOrderRequest
	id  string
	err error
}

func (p *recordingPlacer) PlaceOrder(_ context.Context, req PlaceOrderRequest) (string, error) {
	p.req = req
	return p.id, p.err
}

func TestNewFlow_Defaults(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, StepShipping, f.Step)
	assert.Equal(t, DefaultCountry, f.Shipping.Country)
}

func TestComputeTotals(t *testing.T) {
	tot := ComputeTotals(decimal.NewFromInt(20))
	assert.Equal(t, "20", tot.Subtotal.String())
	assert.Equal(t, "5.99", tot.Shipping.String())
	assert.Equal(t, "1.6", tot.Tax.String())
	assert.True(t, tot.Total.Equal(decimal.RequireFromString("27.59")), tot.Total.String())

	atThreshold := ComputeTotals(decimal.NewFromInt(50))
	assert.True(t, atThreshold.Shipping.Equal(FlatShippingFee))

	over := ComputeTotals(decimal.RequireFromString("50.01"))
	assert.True(t, over.Shipping.IsZero())
	assert.True(t, over.Tax.Equal(decimal.RequireFromString("4")))
}

func TestSubmitShipping_MissingFieldDoesNotAdvance(t *testing.T) {
	fields := []func(*ShippingInfo){
		func(s *ShippingInfo) { s.FirstName = "" },
		func(s *ShippingInfo) { s.LastName = "" },
		func(s *ShippingInfo) { s.Street = "" },
		func(s *ShippingInfo) { s.City = "" },
		func(s *ShippingInfo) { s.State = "" },
		func(s *ShippingInfo) { s.ZipCode = " " },
		func(s *ShippingInfo) { s.Phone = "" },
	}
	for i, clear := range fields {
		f := NewFlow()
		info := validShipping()
		clear(&info)

		err := f.SubmitShipping(info)
		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs), "case %d", i)
		assert.Len(t, verrs, 1, "case %d", i)
		assert.Equal(t, StepShipping, f.Step, "case %d", i)
	}
}

func TestSubmitShipping_ShortPhone(t *testing.T) {
	f := NewFlow()
	info := validShipping()
	info.Phone = "12345"

	err := f.SubmitShipping(info)
	require.Error(t, err)
	assert.Equal(t, validation.MsgInvalidPhone, f.Errors["phone"])
	assert.Equal(t, StepShipping, f.Step)
}

func TestSubmitShipping_AdvancesToReview(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.SubmitShipping(validShipping()))
	assert.Equal(t, StepReview, f.Step)
	assert.Equal(t, DefaultCountry, f.Shipping.Country)
	assert.Empty(t, f.Errors)

	assert.ErrorIs(t, f.SubmitShipping(validShipping()), ErrWrongStep)
}

func TestEditShipping(t *testing.T) {
	f := NewFlow()
	assert.ErrorIs(t, f.EditShipping(), ErrWrongStep)

	require.NoError(t, f.SubmitShipping(validShipping()))
	require.NoError(t, f.EditShipping())
	assert.Equal(t, StepShipping, f.Step)
}

func TestPlaceOrder_Success(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.SubmitShipping(validShipping()))
	store := cartWith("10", 2)
	placer := &recordingPlacer{id: "order-1"}

	require.NoError(t, f.PlaceOrder(context.Background(), placer, store))

	assert.Equal(t, StepConfirmation, f.Step)
	assert.Equal(t, "order-1", f.OrderID)
	assert.True(t, store.IsEmpty())

	require.Len(t, placer.req.Items, 1)
	assert.Equal(t, 2, placer.req.Items[0].Quantity)
	assert.True(t, placer.req.Totals.Subtotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, placer.req.Totals.Shipping.Equal(decimal.RequireFromString("5.99")))
	assert.True(t, placer.req.Totals.Tax.Equal(decimal.RequireFromString("1.60")))
	assert.True(t, placer.req.Totals.Total.Equal(decimal.RequireFromString("27.59")))
	assert.Equal(t, "1 Rd", placer.req.Shipping.Street)

	assert.ErrorIs(t, f.EditShipping(), ErrWrongStep)
	assert.ErrorIs(t, f.PlaceOrder(context.Background(), placer, store), ErrWrongStep)
}

func TestPlaceOrder_FailureKeepsCart(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.SubmitShipping(validShipping()))
	store := cartWith("10", 2)
	boom := errors.New("db down")

	err := f.PlaceOrder(context.Background(), &recordingPlacer{err: boom}, store)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StepReview, f.Step)
	assert.Equal(t, 2, store.ItemCount())
	assert.Empty(t, f.OrderID)
	assert.Contains(t, f.Errors, "order")
}

func TestPlaceOrder_Preconditions(t *testing.T) {
	f := NewFlow()
	assert.ErrorIs(t, f.PlaceOrder(context.Background(), &recordingPlacer{}, cartWith("1", 1)), ErrWrongStep)

	require.NoError(t, f.SubmitShipping(validShipping()))
	assert.ErrorIs(t, f.PlaceOrder(context.Background(), &recordingPlacer{}, cart.New()), ErrEmptyCart)
	assert.ErrorIs(t, f.PlaceOrder(context.Background(), nil, cartWith("1", 1)), ErrNoPlacer)
}

func TestGuard(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, RedirectLogin, Guard(f, false, false))
	assert.Equal(t, RedirectCart, Guard(f, true, true))
	assert.Equal(t, RedirectCart, Guard(nil, true, true))
	assert.Equal(t, RedirectNone, Guard(f, false, true))

	f.Step = StepConfirmation
	assert.Equal(t, RedirectNone, Guard(f, true, true))
}

func TestOrderPlacerFunc(t *testing.T) {
	var got PlaceOrderRequest
	p := OrderPlacerFunc(func(_ context.Context, req PlaceOrderRequest) (string, error) {
		got = req
		return "x", nil
	})
	id, err := p.PlaceOrder(context.Background(), PlaceOrderRequest{Shipping: validShipping()})
	require.NoError(t, err)
	assert.Equal(t, "x", id)
	assert.Equal(t, "A", got.Shipping.FirstName)
}
