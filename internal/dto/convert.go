package dto

import (
	"github.com/flicky/gourmethub-api/internal/model"
)

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		Phone:   u.Phone,
		Avatar:  u.Avatar,
		Address: u.Address,
	}
}

func NewProductResponse(p *model.Product) ProductResponse {
	resp := ProductResponse{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		Images:           p.Images,
		Category:         p.Category,
		Subcategory:      p.Subcategory,
		Brand:            p.Brand,
		Stock:            p.Stock,
		Unit:             p.Unit,
		Ingredients:      p.Ingredients,
		NutritionalInfo:  p.NutritionalInfo,
		Allergens:        p.Allergens,
		IsOrganic:        p.IsOrganic,
		IsFeatured:       p.IsFeatured,
		Rating:           p.Rating,
		NumReviews:       p.NumReviews,
		Reviews:          p.Reviews,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.DiscountPrice.Valid {
		d := p.DiscountPrice.Decimal
		resp.DiscountPrice = &d
		resp.DiscountPercentage = model.DiscountPercentage(p.Price, d)
	}
	return resp
}

func NewProductResponses(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}

func NewOrderResponse(o *model.Order) OrderResponse {
	items := o.Items
	if items == nil {
		items = []model.OrderItem{}
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		UserEmail:       o.UserEmail,
		OrderItems:      items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice,
		ShippingPrice:   o.ShippingPrice,
		TaxPrice:        o.TaxPrice,
		TotalPrice:      o.TotalPrice,
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		Status:          o.Status,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func NewOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

func NewOrderEventResponses(events []model.OrderEvent) []OrderEventResponse {
	out := make([]OrderEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, OrderEventResponse{
			Action:    e.Action,
			From:      e.From,
			To:        e.To,
			ActorID:   e.ActorID,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

func NewStatsResponse(s *model.OrderStats) StatsResponse {
	resp := StatsResponse{
		TotalOrders:    s.TotalOrders,
		TotalRevenue:   s.TotalRevenue,
		TotalProducts:  s.TotalProducts,
		TotalUsers:     s.TotalUsers,
		OrdersByStatus: make([]StatusCountResponse, 0, len(s.OrdersByStatus)),
		RecentOrders:   NewOrderResponses(s.RecentOrders),
		TopProducts:    make([]TopProductResponse, 0, len(s.TopProducts)),
	}
	for _, sc := range s.OrdersByStatus {
		resp.OrdersByStatus = append(resp.OrdersByStatus, StatusCountResponse{Status: sc.Status, Count: sc.Count})
	}
	for _, tp := range s.TopProducts {
		resp.TopProducts = append(resp.TopProducts, TopProductResponse{
			ProductID: tp.ProductID, Title: tp.Title, TotalSold: tp.TotalSold,
		})
	}
	return resp
}
