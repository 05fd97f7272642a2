package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/gourmethub-api/internal/cart"
	"github.com/flicky/gourmethub-api/internal/checkout"
	"github.com/flicky/gourmethub-api/internal/model"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID      uuid.UUID      `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Role    model.Role     `json:"role"`
	Phone   string         `json:"phone,omitempty"`
	Avatar  string         `json:"avatar,omitempty"`
	Address *model.Address `json:"address,omitempty"`
}

type UpdateProfileRequest struct {
	Name    *string        `json:"name"`
	Phone   *string        `json:"phone"`
	Avatar  *string        `json:"avatar"`
	Address *model.Address `json:"address"`
}

// --- Product ---

type ProductRequest struct {
	Title            string                 `json:"title" binding:"required"`
	Description      string                 `json:"description" binding:"required"`
	ShortDescription string                 `json:"shortDescription" binding:"required"`
	Price            decimal.Decimal        `json:"price"`
	DiscountPrice    *decimal.Decimal       `json:"discountPrice"`
	Images           []string               `json:"images"`
	Category         string                 `json:"category" binding:"required"`
	Subcategory      string                 `json:"subcategory"`
	Brand            string                 `json:"brand"`
	Stock            int                    `json:"stock" binding:"min=0"`
	Unit             string                 `json:"unit"`
	Ingredients      []string               `json:"ingredients"`
	NutritionalInfo  *model.NutritionalInfo `json:"nutritionalInfo"`
	Allergens        []string               `json:"allergens"`
	IsOrganic        bool                   `json:"isOrganic"`
	IsFeatured       bool                   `json:"isFeatured"`
}

// UpdateProductRequest applies only the fields that are present.
type UpdateProductRequest struct {
	Title            *string                `json:"title"`
	Description      *string                `json:"description"`
	ShortDescription *string                `json:"shortDescription"`
	Price            *decimal.Decimal       `json:"price"`
	DiscountPrice    *decimal.Decimal       `json:"discountPrice"`
	ClearDiscount    bool                   `json:"clearDiscount"`
	Images           []string               `json:"images"`
	Category         *string                `json:"category"`
	Subcategory      *string                `json:"subcategory"`
	Brand            *string                `json:"brand"`
	Stock            *int                   `json:"stock"`
	Unit             *string                `json:"unit"`
	Ingredients      []string               `json:"ingredients"`
	NutritionalInfo  *model.NutritionalInfo `json:"nutritionalInfo"`
	Allergens        []string               `json:"allergens"`
	IsOrganic        *bool                  `json:"isOrganic"`
	IsFeatured       *bool                  `json:"isFeatured"`
}

type ListProductsRequest struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=12" binding:"min=1,max=100"`
	Category  string `form:"category"`
	Brand     string `form:"brand"`
	MinPrice  string `form:"minPrice"`
	MaxPrice  string `form:"maxPrice"`
	IsOrganic *bool  `form:"isOrganic"`
	Featured  bool   `form:"featured"`
	Search    string `form:"search"`
	Sort      string `form:"sort"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

type ProductResponse struct {
	ID                 uuid.UUID              `json:"id"`
	Title              string                 `json:"title"`
	Slug               string                 `json:"slug"`
	Description        string                 `json:"description"`
	ShortDescription   string                 `json:"shortDescription"`
	Price              decimal.Decimal        `json:"price"`
	DiscountPrice      *decimal.Decimal       `json:"discountPrice,omitempty"`
	DiscountPercentage int                    `json:"discountPercentage,omitempty"`
	Images             []string               `json:"images"`
	Category           model.Category         `json:"category"`
	Subcategory        string                 `json:"subcategory,omitempty"`
	Brand              string                 `json:"brand"`
	Stock              int                    `json:"stock"`
	Unit               model.Unit             `json:"unit"`
	Ingredients        []string               `json:"ingredients"`
	NutritionalInfo    *model.NutritionalInfo `json:"nutritionalInfo,omitempty"`
	Allergens          []model.Allergen       `json:"allergens"`
	IsOrganic          bool                   `json:"isOrganic"`
	IsFeatured         bool                   `json:"isFeatured"`
	Rating             float64                `json:"rating"`
	NumReviews         int                    `json:"numReviews"`
	Reviews            []model.Review         `json:"reviews"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Pages    int               `json:"pages"`
}

type CategoryResponse struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest accepts zero or negative quantities, which remove
// the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items     []cart.Item     `json:"items"`
	IsOpen    bool            `json:"isOpen"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

func NewCartResponse(s *cart.Store) CartResponse {
	return CartResponse{
		Items:     s.Items(),
		IsOpen:    s.IsOpen(),
		Subtotal:  s.Subtotal(),
		ItemCount: s.ItemCount(),
	}
}

// --- Checkout ---

type CheckoutResponse struct {
	Step     checkout.Step         `json:"step"`
	Shipping checkout.ShippingInfo `json:"shipping"`
	Errors   map[string]string     `json:"errors,omitempty"`
	OrderID  string                `json:"orderId,omitempty"`
	Items    []cart.Item           `json:"items"`
	Totals   checkout.Totals       `json:"totals"`
}

// --- Order ---

type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"productId" binding:"required"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CreateOrderRequest carries caller-computed amounts; they are stored as given.
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest    `json:"orderItems"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	ItemsPrice      decimal.Decimal       `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal       `json:"shippingPrice"`
	TaxPrice        decimal.Decimal       `json:"taxPrice"`
	TotalPrice      decimal.Decimal       `json:"totalPrice"`
	Notes           string                `json:"notes"`
}

type ListOrdersRequest struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"userId"`
	UserEmail       string                `json:"userEmail"`
	OrderItems      []model.OrderItem     `json:"orderItems"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal       `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal       `json:"shippingPrice"`
	TaxPrice        decimal.Decimal       `json:"taxPrice"`
	TotalPrice      decimal.Decimal       `json:"totalPrice"`
	IsPaid          bool                  `json:"isPaid"`
	PaidAt          *time.Time            `json:"paidAt,omitempty"`
	IsDelivered     bool                  `json:"isDelivered"`
	DeliveredAt     *time.Time            `json:"deliveredAt,omitempty"`
	Status          model.OrderStatus     `json:"status"`
	Notes           string                `json:"notes,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

type OrderEventResponse struct {
	Action    string            `json:"action"`
	From      model.OrderStatus `json:"from,omitempty"`
	To        model.OrderStatus `json:"to"`
	ActorID   uuid.UUID         `json:"actorId"`
	CreatedAt time.Time         `json:"createdAt"`
}

type StatusCountResponse struct {
	Status model.OrderStatus `json:"status"`
	Count  int               `json:"count"`
}

type TopProductResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	TotalSold int       `json:"totalSold"`
}

type StatsResponse struct {
	TotalOrders    int                   `json:"totalOrders"`
	TotalRevenue   decimal.Decimal       `json:"totalRevenue"`
	TotalProducts  int                   `json:"totalProducts"`
	TotalUsers     int                   `json:"totalUsers"`
	OrdersByStatus []StatusCountResponse `json:"ordersByStatus"`
	RecentOrders   []OrderResponse       `json:"recentOrders"`
	TopProducts    []TopProductResponse  `json:"topProducts"`
}
