package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/gourmethub-api/internal/model"
	"github.com/flicky/gourmethub-api/internal/validation"
)

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	stats  *model.OrderStats
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context, limit, offset int) ([]model.Order, int, error) {
	all := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return []model.Order{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, order *model.Order) error {
	stored, ok := m.orders[order.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = order.Status
	stored.IsDelivered = order.IsDelivered
	stored.DeliveredAt = order.DeliveredAt
	stored.UpdatedAt = order.UpdatedAt
	return nil
}

func (m *mockOrderRepo) Stats(_ context.Context, _, _ int) (*model.OrderStats, error) {
	if m.stats != nil {
		cp := *m.stats
		return &cp, nil
	}
	return &model.OrderStats{TotalOrders: len(m.orders), TotalRevenue: decimal.Zero}, nil
}

type mockAuditRepo struct {
	events []model.OrderEvent
	err    error
}

func (m *mockAuditRepo) Record(_ context.Context, event *model.OrderEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *mockAuditRepo) History(_ context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	out := []model.OrderEvent{}
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].OrderID == orderID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

type mockPublisher struct {
	published []model.OrderMessage
	err       error
}

func (m *mockPublisher) PublishOrderPlaced(_ context.Context, msg model.OrderMessage) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type orderFixture struct {
	orders    *mockOrderRepo
	products  *mockProductRepo
	users     *mockUserRepo
	audit     *mockAuditRepo
	publisher *mockPublisher
	svc       *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    newMockOrderRepo(),
		products:  newMockProductRepo(),
		users:     newMockUserRepo(),
		audit:     &mockAuditRepo{},
		publisher: &mockPublisher{},
	}
	f.svc = NewOrderService(f.orders, f.products, f.users, f.audit, f.publisher, discardLogger())
	return f
}

func sampleOrderInput(userID uuid.UUID) CreateOrderInput {
	return CreateOrderInput{
		UserID:    userID,
		UserEmail: "jane@example.com",
		Items: []model.OrderItem{{
			ProductID: uuid.New(), Title: "Sourdough Loaf", Slug: "sourdough-loaf",
			Image: model.PlaceholderImage, Price: decimal.RequireFromString("6.50"), Quantity: 2,
		}},
		ShippingAddress: model.ShippingAddress{
			FirstName: "Jane", LastName: "Doe", Street: "1 Main St", City: "Springfield",
			State: "IL", ZipCode: "62701", Phone: "5551234567",
		},
		ItemsPrice:    decimal.RequireFromString("13.00"),
		ShippingPrice: decimal.RequireFromString("5.99"),
		TaxPrice:      decimal.RequireFromString("1.04"),
		TotalPrice:    decimal.RequireFromString("20.03"),
		Notes:         "  leave at the door ",
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture()
	user := uuid.New()

	order, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(user))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, "United States", order.ShippingAddress.Country)
	assert.Equal(t, "leave at the door", order.Notes)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("20.03")))

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, order.ID, f.publisher.published[0].OrderID)
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, model.OrderEventCreated, f.audit.events[0].Action)
	assert.Equal(t, model.OrderStatusPending, f.audit.events[0].To)
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture()
	in := sampleOrderInput(uuid.New())
	in.Items = nil

	_, err := f.svc.CreateOrder(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.orders)
}

func TestOrderService_CreateOrder_Invalid(t *testing.T) {
	f := newOrderFixture()
	in := sampleOrderInput(uuid.New())
	in.ShippingAddress.City = ""
	in.TaxPrice = decimal.NewFromInt(-1)
	in.Items[0].Quantity = 0

	_, err := f.svc.CreateOrder(context.Background(), in)
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "shippingAddress.city")
	assert.Contains(t, verrs, "taxPrice")
	assert.Contains(t, verrs, "orderItems[0]")
	assert.Empty(t, f.publisher.published)
}

func TestOrderService_CreateOrder_SideEffectFailuresTolerated(t *testing.T) {
	f := newOrderFixture()
	f.publisher.err = errors.New("broker unavailable")
	f.audit.err = errors.New("mongo unavailable")

	order, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(uuid.New()))
	require.NoError(t, err)
	assert.Contains(t, f.orders.orders, order.ID)
}

func TestOrderService_CreateOrder_WithoutPublisherOrAudit(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), nil, nil, nil, nil, discardLogger())
	_, err := svc.CreateOrder(context.Background(), sampleOrderInput(uuid.New()))
	assert.NoError(t, err)
}

func TestOrderService_GetByID(t *testing.T) {
	f := newOrderFixture()
	owner := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(owner))
	require.NoError(t, err)

	got, err := f.svc.GetByID(context.Background(), order.ID, owner, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.svc.GetByID(context.Background(), order.ID, uuid.New(), model.RoleUser)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	got, err = f.svc.GetByID(context.Background(), order.ID, uuid.New(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, owner, got.UserID)

	_, err = f.svc.GetByID(context.Background(), uuid.New(), owner, model.RoleUser)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListByUserID(t *testing.T) {
	f := newOrderFixture()
	user := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(user))
		require.NoError(t, err)
	}
	_, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(uuid.New()))
	require.NoError(t, err)

	orders, err := f.svc.ListByUserID(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderService_ListAll_Paging(t *testing.T) {
	f := newOrderFixture()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		id := uuid.New()
		f.orders.orders[id] = &model.Order{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
	}

	orders, total, err := f.svc.ListAll(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, orders, DefaultOrderLimit)
	assert.True(t, orders[0].CreatedAt.After(orders[1].CreatedAt))

	orders, _, err = f.svc.ListAll(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Len(t, orders, 5)

	orders, _, err = f.svc.ListAll(context.Background(), 1, 1000)
	require.NoError(t, err)
	assert.Len(t, orders, 25)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newOrderFixture()
	admin := uuid.New()
	order, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(uuid.New()))
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	for _, next := range []model.OrderStatus{model.OrderStatusProcessing, model.OrderStatusShipped} {
		updated, err := f.svc.UpdateStatus(context.Background(), order.ID, next, admin)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
		assert.False(t, updated.IsDelivered)
	}

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusDelivered, admin)
	require.NoError(t, err)
	assert.True(t, updated.IsDelivered)
	require.NotNil(t, updated.DeliveredAt)
	assert.Equal(t, fixed, *updated.DeliveredAt)
	assert.True(t, f.orders.orders[order.ID].IsDelivered)

	last := f.audit.events[len(f.audit.events)-1]
	assert.Equal(t, model.OrderEventStatusChanged, last.Action)
	assert.Equal(t, model.OrderStatusShipped, last.From)
	assert.Equal(t, model.OrderStatusDelivered, last.To)
	assert.Equal(t, admin, last.ActorID)
	assert.Equal(t, fixed, last.CreatedAt)
}

func TestOrderService_UpdateStatus_IllegalTransition(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(uuid.New()))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusDelivered, uuid.New())
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, model.OrderStatusPending, f.orders.orders[order.ID].Status)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusCancelled, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusProcessing, uuid.New())
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	f := newOrderFixture()
	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusProcessing, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Stats(t *testing.T) {
	f := newOrderFixture()
	f.products.add(sampleProduct("Olive Oil", model.CategoryPantry, "12", 5))
	f.products.add(sampleProduct("Honey", model.CategoryPantry, "8", 5))
	require.NoError(t, f.users.Create(context.Background(), &model.User{Name: "A", Email: "a@example.com"}))
	f.orders.stats = &model.OrderStats{
		TotalOrders:  3,
		TotalRevenue: decimal.RequireFromString("90.50"),
		OrdersByStatus: []model.StatusCount{
			{Status: model.OrderStatusPending, Count: 2},
			{Status: model.OrderStatusDelivered, Count: 1},
		},
	}

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("90.50")))
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Len(t, stats.OrdersByStatus, 2)
}

func TestOrderService_History(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.CreateOrder(context.Background(), sampleOrderInput(uuid.New()))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusProcessing, uuid.New())
	require.NoError(t, err)

	events, err := f.svc.History(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.OrderEventStatusChanged, events[0].Action)
	assert.Equal(t, model.OrderEventCreated, events[1].Action)

	_, err = f.svc.History(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
