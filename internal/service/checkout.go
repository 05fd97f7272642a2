package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flicky/gourmethub-api/internal/cart"
	"github.com/flicky/gourmethub-api/internal/checkout"
	"github.com/flicky/gourmethub-api/internal/model"
	"github.com/flicky/gourmethub-api/internal/repository"
)

// CheckoutState is what a shopper sees when entering checkout.
type CheckoutState struct {
	Flow     *checkout.Flow
	Cart     *cart.Store
	Redirect checkout.Redirect
}

// CheckoutService keeps a per-user checkout flow next to the user's cart and
// hands the review step over to the order workflow.
type CheckoutService struct {
	flows  repository.CheckoutRepository
	carts  *CartService
	orders *OrderService
	log    *slog.Logger
}

func NewCheckoutService(flows repository.CheckoutRepository, carts *CartService, orders *OrderService, log *slog.Logger) *CheckoutService {
	return &CheckoutService{flows: flows, carts: carts, orders: orders, log: log}
}

func (s *CheckoutService) load(ctx context.Context, userID uuid.UUID) (*checkout.Flow, *cart.Store, error) {
	flow, err := s.flows.Load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if flow == nil {
		flow = checkout.NewFlow()
	}
	store, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return flow, store, nil
}

// View returns the current checkout state. A confirmation is shown once: the
// stored flow is dropped as soon as it has been read.
func (s *CheckoutService) View(ctx context.Context, userID uuid.UUID) (*CheckoutState, error) {
	flow, store, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := &CheckoutState{
		Flow:     flow,
		Cart:     store,
		Redirect: checkout.Guard(flow, store.IsEmpty(), userID != uuid.Nil),
	}
	if state.Redirect == checkout.RedirectNone && flow.Step == checkout.StepConfirmation {
		if err := s.flows.Delete(ctx, userID); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// SubmitShipping validates the shipping form. Validation failures are kept
// on the flow and returned as validation.Errors.
func (s *CheckoutService) SubmitShipping(ctx context.Context, userID uuid.UUID, info checkout.ShippingInfo) (*CheckoutState, error) {
	flow, store, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store.IsEmpty() {
		return nil, ErrEmptyCart
	}

	submitErr := flow.SubmitShipping(info)
	if errors.Is(submitErr, checkout.ErrWrongStep) {
		return nil, submitErr
	}
	if err := s.flows.Save(ctx, userID, flow); err != nil {
		return nil, err
	}
	if submitErr != nil {
		return nil, submitErr
	}
	return &CheckoutState{Flow: flow, Cart: store}, nil
}

func (s *CheckoutService) EditShipping(ctx context.Context, userID uuid.UUID) (*CheckoutState, error) {
	flow, store, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := flow.EditShipping(); err != nil {
		return nil, err
	}
	if err := s.flows.Save(ctx, userID, flow); err != nil {
		return nil, err
	}
	return &CheckoutState{Flow: flow, Cart: store}, nil
}

// PlaceOrder turns the reviewed cart into a pending order. The cart is only
// cleared when the order was stored; on failure the flow stays in review
// with an order error attached.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, email string) (*CheckoutState, error) {
	flow, store, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if flow.Step == checkout.StepReview && store.IsEmpty() {
		return nil, ErrEmptyCart
	}

	placer := checkout.OrderPlacerFunc(func(ctx context.Context, req checkout.PlaceOrderRequest) (string, error) {
		items, err := orderItemsFromCart(req.Items)
		if err != nil {
			return "", err
		}
		order, err := s.orders.CreateOrder(ctx, CreateOrderInput{
			UserID:          userID,
			UserEmail:       email,
			Items:           items,
			ShippingAddress: model.ShippingAddress(req.Shipping),
			ItemsPrice:      req.Totals.Subtotal,
			ShippingPrice:   req.Totals.Shipping,
			TaxPrice:        req.Totals.Tax,
			TotalPrice:      req.Totals.Total,
		})
		if err != nil {
			return "", err
		}
		return order.ID.String(), nil
	})

	placeErr := flow.PlaceOrder(ctx, placer, store)
	if errors.Is(placeErr, checkout.ErrWrongStep) {
		return nil, placeErr
	}
	if placeErr != nil {
		if err := s.flows.Save(ctx, userID, flow); err != nil {
			return nil, err
		}
		return &CheckoutState{Flow: flow, Cart: store}, placeErr
	}

	// The order is stored. Persistence failures from here on must not let a
	// retry place it again, so they are logged and the confirmation stands.
	log := s.log.With("user_id", userID, "order_id", flow.OrderID)
	if err := s.flows.Save(ctx, userID, flow); err != nil {
		log.Warn("save confirmed checkout", "error", err)
	}
	if err := s.carts.SaveCart(ctx, userID, store); err != nil {
		log.Warn("clear cart after order", "error", err)
	}
	return &CheckoutState{Flow: flow, Cart: store}, nil
}

func orderItemsFromCart(items []cart.Item) ([]model.OrderItem, error) {
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("cart item %s: %w", it.ID, err)
		}
		out = append(out, model.OrderItem{
			ProductID: id,
			Title:     it.Title,
			Slug:      it.Slug,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return out, nil
}
