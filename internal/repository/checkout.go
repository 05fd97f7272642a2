package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/gourmethub-api/internal/checkout"
)

// CheckoutRepository stores the in-progress checkout flow of each user.
type CheckoutRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (*checkout.Flow, error)
	Save(ctx context.Context, userID uuid.UUID, flow *checkout.Flow) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type redisCheckoutRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCheckoutRepository(client *redis.Client, ttl time.Duration) CheckoutRepository {
	return &redisCheckoutRepo{client: client, ttl: ttl}
}

func checkoutKey(userID uuid.UUID) string {
	return "checkout:" + userID.String()
}

// Load returns nil, nil when the user has no flow in progress.
func (r *redisCheckoutRepo) Load(ctx context.Context, userID uuid.UUID) (*checkout.Flow, error) {
	data, err := r.client.Get(ctx, checkoutKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load checkout: %w", err)
	}

	flow := &checkout.Flow{}
	if err := json.Unmarshal(data, flow); err != nil {
		return nil, fmt.Errorf("decode checkout: %w", err)
	}
	return flow, nil
}

func (r *redisCheckoutRepo) Save(ctx context.Context, userID uuid.UUID, flow *checkout.Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("encode checkout: %w", err)
	}
	if err := r.client.Set(ctx, checkoutKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save checkout: %w", err)
	}
	return nil
}

func (r *redisCheckoutRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, checkoutKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete checkout: %w", err)
	}
	return nil
}
