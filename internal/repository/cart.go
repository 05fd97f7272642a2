package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flicky/gourmethub-api/internal/cart"
)

type redisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStorage keeps cart state in Redis under cart.Key(userID). Each save
// refreshes the TTL; a zero ttl keeps carts forever.
func NewCartStorage(client *redis.Client, ttl time.Duration) cart.Storage {
	return &redisCartStorage{client: client, ttl: ttl}
}

func (s *redisCartStorage) Load(ctx context.Context, key string) (cart.State, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.State{}, nil
		}
		return cart.State{}, fmt.Errorf("load cart: %w", err)
	}

	var st cart.State
	if err := json.Unmarshal(data, &st); err != nil {
		return cart.State{}, fmt.Errorf("decode cart: %w", err)
	}
	return st, nil
}

func (s *redisCartStorage) Save(ctx context.Context, key string, st cart.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
