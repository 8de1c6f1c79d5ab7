package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedTokenPrefix = "revoked_token:"

// RevocationStore remembers logged-out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, claims *Claims) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RevokedToken struct {
	UserID    int64     `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RedisRevocationStore struct {
	Client *redis.Client
	now    func() time.Time
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{Client: client, now: time.Now}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, claims *Claims) error {
	if s.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	if claims == nil || claims.ID == "" {
		return fmt.Errorf("token has no id")
	}

	now := s.now()
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		// already expired, the token is rejected anyway
		return nil
	}

	entry, err := json.Marshal(RevokedToken{UserID: claims.UserID, RevokedAt: now, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("failed to marshal revoked token: %w", err)
	}

	if err := s.Client.Set(ctx, revokedTokenPrefix+claims.ID, entry, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revoked token in Redis: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.Client == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	n, err := s.Client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token in Redis: %w", err)
	}
	return n > 0, nil
}
