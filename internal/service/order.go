package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/flicky/gourmethub-api/internal/checkout"
	"github.com/flicky/gourmethub-api/internal/model"
	"github.com/flicky/gourmethub-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
)

const (
	DefaultOrderLimit = 20
	MaxOrderLimit     = 100
	recentOrdersLimit = 5
	topProductsLimit  = 5
)

// EventPublisher announces placed orders to background consumers.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg model.OrderMessage) error
}

// CreateOrderInput is an order as submitted by a shopper. Amounts are
// trusted as given.
type CreateOrderInput struct {
	UserID          uuid.UUID
	UserEmail       string
	Items           []model.OrderItem
	ShippingAddress model.ShippingAddress
	ItemsPrice      decimal.Decimal
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
	TotalPrice      decimal.Decimal
	Notes           string
}

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	audit       repository.AuditRepository
	publisher   EventPublisher
	log         *slog.Logger
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	audit repository.AuditRepository,
	publisher EventPublisher,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		audit:       audit,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// CreateOrder validates and stores a pending cash-on-delivery order. The
// placed event and audit entry are best-effort: their failures are logged
// and the order still stands.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if in.ShippingAddress.Country == "" {
		in.ShippingAddress.Country = checkout.DefaultCountry
	}

	order := &model.Order{
		UserID:          in.UserID,
		UserEmail:       in.UserEmail,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   model.PaymentMethodCOD,
		ItemsPrice:      in.ItemsPrice,
		ShippingPrice:   in.ShippingPrice,
		TaxPrice:        in.TaxPrice,
		TotalPrice:      in.TotalPrice,
		Status:          model.OrderStatusPending,
		Notes:           strings.TrimSpace(in.Notes),
	}
	if err := order.Validate().Err(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	log := s.log.With("order_id", order.ID, "user_id", order.UserID)
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, model.OrderMessage{OrderID: order.ID, UserID: order.UserID}); err != nil {
			log.Warn("publish order placed", "error", err)
		}
	}
	s.record(ctx, log, &model.OrderEvent{
		OrderID: order.ID,
		Action:  model.OrderEventCreated,
		To:      order.Status,
		ActorID: order.UserID,
	})
	return order, nil
}

// GetByID returns an order. Non-admin callers only see their own orders.
func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID, role model.Role) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if role != model.RoleAdmin && order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListAll pages through every order, newest first. Out-of-range page and
// limit values fall back to the defaults.
func (s *OrderService) ListAll(ctx context.Context, page, limit int) ([]model.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultOrderLimit
	}
	if limit > MaxOrderLimit {
		limit = MaxOrderLimit
	}

	orders, total, err := s.orderRepo.ListAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list all orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves an order along the status lifecycle on behalf of actorID.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus, actorID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	from := order.Status
	if err := order.TransitionTo(status, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.record(ctx, s.log.With("order_id", order.ID), &model.OrderEvent{
		OrderID: order.ID,
		Action:  model.OrderEventStatusChanged,
		From:    from,
		To:      order.Status,
		ActorID: actorID,
	})
	return order, nil
}

func (s *OrderService) Stats(ctx context.Context) (*model.OrderStats, error) {
	stats, err := s.orderRepo.Stats(ctx, recentOrdersLimit, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return stats, nil
}

// History returns the audit trail of an order, newest first.
func (s *OrderService) History(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if s.audit == nil {
		return []model.OrderEvent{}, nil
	}

	events, err := s.audit.History(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return events, nil
}

func (s *OrderService) record(ctx context.Context, log *slog.Logger, event *model.OrderEvent) {
	if s.audit == nil {
		return
	}
	event.CreatedAt = s.now().UTC()
	if err := s.audit.Record(ctx, event); err != nil {
		log.Warn("record order event", "action", event.Action, "error", err)
	}
}
