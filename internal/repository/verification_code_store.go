package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound reports an absent or expired verification code.
var ErrCodeNotFound = errors.New("verification code not found")

// VerificationCodeStore keeps password-reset codes keyed by email. Codes
// expire after the configured TTL; writing a new code for the same email
// overwrites the previous one.
type VerificationCodeStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type verificationCodeStore struct {
	client *redis.Client
}

// NewVerificationCodeStore returns a Redis-backed implementation.
func NewVerificationCodeStore(client *redis.Client) VerificationCodeStore {
	return &verificationCodeStore{client: client}
}

func codeKey(email string) string {
	return "reset-code:" + email
}

func (s *verificationCodeStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKey(email), code, ttl).Err()
}

func (s *verificationCodeStore) Get(ctx context.Context, email string) (string, error) {
	val, err := s.client.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *verificationCodeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, codeKey(email)).Err()
}
