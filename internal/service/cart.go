package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flicky/gourmethub-api/internal/cart"
	"github.com/flicky/gourmethub-api/internal/repository"
)

var ErrOutOfStock = errors.New("product is out of stock")

// CartService applies cart mutations for a user and saves the result after
// every change. Concurrent writers for the same user are last-write-wins.
type CartService struct {
	storage     cart.Storage
	productRepo repository.ProductRepository
}

func NewCartService(storage cart.Storage, productRepo repository.ProductRepository) *CartService {
	return &CartService{storage: storage, productRepo: productRepo}
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.Store, error) {
	st, err := s.storage.Load(ctx, cart.Key(userID.String()))
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart.NewFromState(st), nil
}

// SaveCart persists store as userID's cart.
func (s *CartService) SaveCart(ctx context.Context, userID uuid.UUID, store *cart.Store) error {
	if err := s.storage.Save(ctx, cart.Key(userID.String()), store.State()); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartService) mutate(ctx context.Context, userID uuid.UUID, fn func(*cart.Store)) (*cart.Store, error) {
	store, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(store)
	if err := s.SaveCart(ctx, userID, store); err != nil {
		return nil, err
	}
	return store, nil
}

// AddItem snapshots the product's current price and stock into the cart.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cart.Store, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Stock <= 0 {
		return nil, ErrOutOfStock
	}

	return s.mutate(ctx, userID, func(store *cart.Store) {
		store.AddItem(cart.Candidate{
			ProductID:   product.ID.String(),
			Title:       product.Title,
			Slug:        product.Slug,
			Image:       product.PrimaryImage(),
			Price:       product.EffectivePrice(),
			Quantity:    quantity,
			MaxQuantity: product.Stock,
		})
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*cart.Store, error) {
	return s.mutate(ctx, userID, func(store *cart.Store) { store.UpdateQuantity(productID, quantity) })
}

func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*cart.Store, error) {
	return s.mutate(ctx, userID, func(store *cart.Store) { store.RemoveItem(productID) })
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*cart.Store, error) {
	return s.mutate(ctx, userID, (*cart.Store).ClearCart)
}

func (s *CartService) Toggle(ctx context.Context, userID uuid.UUID) (*cart.Store, error) {
	return s.mutate(ctx, userID, (*cart.Store).ToggleCart)
}

func (s *CartService) Open(ctx context.Context, userID uuid.UUID) (*cart.Store, error) {
	return s.mutate(ctx, userID, (*cart.Store).OpenCart)
}

func (s *CartService) Close(ctx context.Context, userID uuid.UUID) (*cart.Store, error) {
	return s.mutate(ctx, userID, (*cart.Store).CloseCart)
}
