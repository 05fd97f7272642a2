// Package cart holds a shopper's cart lines and drawer visibility.
//
// A Store is a plain state container: callers construct one, restore it from
// Storage, apply mutations and save it back. Nothing here is global.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StorageKey prefixes every persisted cart.
const StorageKey = "gourmethub-cart"

// Item is one cart line. Quantity stays within [1, MaxQuantity].
type Item struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"maxQuantity"`
}

// Candidate is an item about to be added; the store assigns its ID.
type Candidate struct {
	ProductID   string
	Title       string
	Slug        string
	Image       string
	Price       decimal.Decimal
	Quantity    int
	MaxQuantity int
}

// State is the persisted form of a cart.
type State struct {
	Items  []Item `json:"items"`
	IsOpen bool   `json:"isOpen"`
}

// Storage loads and saves cart state under a key. Load returns a zero State
// when nothing is stored.
type Storage interface {
	Load(ctx context.Context, key string) (State, error)
	Save(ctx context.Context, key string, state State) error
}

// Key returns the storage key for a shopper.
func Key(owner string) string {
	return StorageKey + ":" + owner
}

type Store struct {
	items  []Item
	isOpen bool
	now    func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// NewFromState returns a store holding a copy of st.
func NewFromState(st State) *Store {
	s := New()
	s.Restore(st)
	return s
}

// WithClock overrides the time source used for item IDs.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// AddItem merges c into the line with the same product, clamped to that
// line's MaxQuantity, or appends it as a new line. A line whose clamped
// quantity falls below one is dropped.
func (s *Store) AddItem(c Candidate) {
	for i := range s.items {
		if s.items[i].ProductID == c.ProductID {
			q := clamp(s.items[i].Quantity+c.Quantity, s.items[i].MaxQuantity)
			if q < 1 {
				s.RemoveItem(c.ProductID)
				return
			}
			s.items[i].Quantity = q
			return
		}
	}
	q := clamp(c.Quantity, c.MaxQuantity)
	if q < 1 {
		return
	}
	s.items = append(s.items, Item{
		ID:          fmt.Sprintf("%s-%d", c.ProductID, s.now().UnixMilli()),
		ProductID:   c.ProductID,
		Title:       c.Title,
		Slug:        c.Slug,
		Image:       c.Image,
		Price:       c.Price,
		Quantity:    q,
		MaxQuantity: c.MaxQuantity,
	})
}

// RemoveItem drops every line for productID.
func (s *Store) RemoveItem(productID string) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// UpdateQuantity sets the quantity of productID's line. A quantity of zero
// or less, or a ceiling of zero, removes the line.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		q := clamp(quantity, s.items[i].MaxQuantity)
		if q < 1 {
			s.RemoveItem(productID)
			return
		}
		s.items[i].Quantity = q
	}
}

// ClearCart empties the cart. Drawer visibility is kept.
func (s *Store) ClearCart() {
	s.items = nil
}

func (s *Store) ToggleCart() { s.isOpen = !s.isOpen }
func (s *Store) OpenCart()   { s.isOpen = true }
func (s *Store) CloseCart()  { s.isOpen = false }

func (s *Store) IsOpen() bool { return s.isOpen }

func (s *Store) IsEmpty() bool { return len(s.items) == 0 }

// Items returns a copy of the cart lines.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Subtotal is the sum of price times quantity over every line.
func (s *Store) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ItemCount is the total quantity across lines, not the number of lines.
func (s *Store) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// State snapshots the store for persistence.
func (s *Store) State() State {
	return State{Items: s.Items(), IsOpen: s.isOpen}
}

// Restore replaces the store contents with a copy of st.
func (s *Store) Restore(st State) {
	s.items = make([]Item, len(st.Items))
	copy(s.items, st.Items)
	s.isOpen = st.IsOpen
}

// clamp bounds q to [1, ceiling]. The ceiling is applied last so a line
// never exceeds its stock ceiling; a ceiling below one yields that ceiling.
func clamp(q, ceiling int) int {
	if q < 1 {
		q = 1
	}
	if q > ceiling {
		q = ceiling
	}
	return q
}
