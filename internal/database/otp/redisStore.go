package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	if err := s.client.Del(ctx, attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to reset otp attempts: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", entity.ErrInvalidOTP
	}
	if err != nil {
		return "", fmt.Errorf("failed to read otp: %w", err)
	}
	return code, nil
}

// Fail bumps the attempt counter. The counter expires with the code so a
// stale count never outlives it.
func (s *RedisStore) Fail(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	n, err := s.client.Incr(ctx, attemptsKey(email)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count otp attempt: %w", err)
	}
	if n == 1 {
		if err := s.client.Expire(ctx, attemptsKey(email), ttl).Err(); err != nil {
			return n, fmt.Errorf("failed to expire otp attempts: %w", err)
		}
	}
	return n, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, key(email), attemptsKey(email)).Err()
}
