package otp

import (
	"context"
	"time"
)

// Store keeps one-time passwords keyed by email until they expire or are used.
// Get returns entity.ErrInvalidOTP when no live code exists. Fail records a
// wrong guess against the current code and returns how many there have been;
// Set starts a new code with a clean count.
type Store interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Fail(ctx context.Context, email string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, email string) error
}

func key(email string) string {
	return "otp:" + email
}

func attemptsKey(email string) string {
	return "otp_attempts:" + email
}
