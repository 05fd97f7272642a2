package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	Role      Role
	Phone     string
	Avatar    string
	Address   *Address
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Product struct {
	ID               uuid.UUID
	Title            string
	Slug             string
	Description      string
	ShortDescription string
	Price            decimal.Decimal
	DiscountPrice    decimal.NullDecimal
	Images           []string
	Category         Category
	Subcategory      string
	Brand            string
	Stock            int
	Unit             Unit
	Ingredients      []string
	NutritionalInfo  *NutritionalInfo
	Allergens        []Allergen
	IsOrganic        bool
	IsFeatured       bool
	Rating           float64
	NumReviews       int
	Reviews          []Review
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type NutritionalInfo struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

type Review struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	UserEmail       string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	ItemsPrice      decimal.Decimal
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
	TotalPrice      decimal.Decimal
	IsPaid          bool
	PaidAt          *time.Time
	IsDelivered     bool
	DeliveredAt     *time.Time
	Status          OrderStatus
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a snapshot of a product line taken when the order is placed.
type OrderItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// OrderMessage is published when an order is placed.
type OrderMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// OrderEvent is an entry in an order's audit trail.
type OrderEvent struct {
	OrderID   uuid.UUID
	Action    string
	From      OrderStatus
	To        OrderStatus
	ActorID   uuid.UUID
	CreatedAt time.Time
}

const (
	OrderEventCreated       = "created"
	OrderEventStatusChanged = "status_changed"
)

// ProductFilter is the catalog query. Nil pointers mean "not filtered".
type ProductFilter struct {
	Category  *Category
	Brand     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	IsOrganic *bool
	Featured  bool
	Search    string
	Sort      SortOption
	Limit     int
	Offset    int
}

type CategoryCount struct {
	Category Category
	Count    int
}

type StatusCount struct {
	Status OrderStatus
	Count  int
}

type TopProduct struct {
	ProductID uuid.UUID
	Title     string
	TotalSold int
}

type OrderStats struct {
	TotalOrders    int
	TotalRevenue   decimal.Decimal
	OrdersByStatus []StatusCount
	RecentOrders   []Order
	TopProducts    []TopProduct
	TotalProducts  int
	TotalUsers     int
}
