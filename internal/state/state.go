package state

import (
	"context"
	"errors"
	"fmt"

	"storefront/client/internal/cart"

	"github.com/redis/go-redis/v9"
)

type redisCartStorage struct {
	redisClient *redis.Client
	key         string
}

// NewRedisStorage keeps the cart under storefront:<key> with no expiry.
func NewRedisStorage(redisClient *redis.Client, key string) cart.Storage {
	return &redisCartStorage{
		redisClient: redisClient,
		key:         "storefront:" + key,
	}
}

func (s *redisCartStorage) Load(ctx context.Context) ([]byte, error) {
	val, err := s.redisClient.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Nothing saved yet
		}
		return nil, fmt.Errorf("failed to get cart %s: %w", s.key, err)
	}
	return val, nil
}

func (s *redisCartStorage) Save(ctx context.Context, data []byte) error {
	err := s.redisClient.Set(ctx, s.key, data, 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set cart %s: %w", s.key, err)
	}
	return nil
}
