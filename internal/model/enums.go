package model

import (
	"errors"
	"fmt"
	"strings"
)

// UnknownValueError reports a value outside a closed set of variants.
type UnknownValueError struct {
	Kind  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

func parseEnum[T ~string](kind, s string, allowed []T) (T, error) {
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, &UnknownValueError{Kind: kind, Value: s}
}

type Category string

const (
	CategoryFreshProduce  Category = "fresh-produce"
	CategoryDairyEggs     Category = "dairy-eggs"
	CategoryMeatSeafood   Category = "meat-seafood"
	CategoryBakery        Category = "bakery"
	CategoryFrozenFoods   Category = "frozen-foods"
	CategoryBeverages     Category = "beverages"
	CategorySnacks        Category = "snacks"
	CategoryPantry        Category = "pantry"
	CategoryOrganic       Category = "organic"
	CategoryInternational Category = "international"
)

var categories = []Category{
	CategoryFreshProduce, CategoryDairyEggs, CategoryMeatSeafood, CategoryBakery, CategoryFrozenFoods,
	CategoryBeverages, CategorySnacks, CategoryPantry, CategoryOrganic, CategoryInternational,
}

func ParseCategory(s string) (Category, error) { return parseEnum("category", s, categories) }

type Unit string

const (
	UnitKg     Unit = "kg"
	UnitG      Unit = "g"
	UnitLb     Unit = "lb"
	UnitOz     Unit = "oz"
	UnitL      Unit = "L"
	UnitMl     Unit = "ml"
	UnitPiece  Unit = "piece"
	UnitPack   Unit = "pack"
	UnitBox    Unit = "box"
	UnitBottle Unit = "bottle"
)

var units = []Unit{UnitKg, UnitG, UnitLb, UnitOz, UnitL, UnitMl, UnitPiece, UnitPack, UnitBox, UnitBottle}

func ParseUnit(s string) (Unit, error) { return parseEnum("unit", s, units) }

type Allergen string

const (
	AllergenGluten    Allergen = "gluten"
	AllergenDairy     Allergen = "dairy"
	AllergenNuts      Allergen = "nuts"
	AllergenSoy       Allergen = "soy"
	AllergenEggs      Allergen = "eggs"
	AllergenFish      Allergen = "fish"
	AllergenShellfish Allergen = "shellfish"
	AllergenSesame    Allergen = "sesame"
)

var allergens = []Allergen{
	AllergenGluten, AllergenDairy, AllergenNuts, AllergenSoy,
	AllergenEggs, AllergenFish, AllergenShellfish, AllergenSesame,
}

func ParseAllergen(s string) (Allergen, error) { return parseEnum("allergen", s, allergens) }

// ParseAllergens parses every entry, failing on the first unknown one.
func ParseAllergens(in []string) ([]Allergen, error) {
	out := make([]Allergen, 0, len(in))
	for _, s := range in {
		a, err := ParseAllergen(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type PaymentMethod string

// Cash on delivery is the only payment method the shop accepts.
const PaymentMethodCOD PaymentMethod = "cod"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
}

// OrderStatuses lists every status in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	return parseEnum("order status", strings.ToLower(strings.TrimSpace(s)), orderStatuses)
}

var ErrInvalidTransition = errors.New("invalid status transition")

var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// SortOption selects the catalog ordering.
type SortOption string

const (
	SortPopular   SortOption = "popular"
	SortNewest    SortOption = "newest"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortRating    SortOption = "rating"
)

var sortOptions = []SortOption{SortPopular, SortNewest, SortPriceAsc, SortPriceDesc, SortRating}

// ParseSortOption maps "" to SortPopular.
func ParseSortOption(s string) (SortOption, error) {
	if s == "" {
		return SortPopular, nil
	}
	return parseEnum("sort", s, sortOptions)
}
