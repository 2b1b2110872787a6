package jwt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token status constants
const (
	TokenStatusNormal = 1 // Token is valid
	TokenStatusLogout = 2 // Token was logged out
)

// TokenStore manages token storage in Redis
type TokenStore struct {
	rdb          *redis.Client
	accessExpire time.Duration
	keyPrefix    string
}

// NewTokenStore creates a new TokenStore
func NewTokenStore(rdb *redis.Client, expireHours int) *TokenStore {
	return &TokenStore{
		rdb:          rdb,
		accessExpire: time.Duration(expireHours) * time.Hour,
		keyPrefix:    "concord:token:",
	}
}

// tokenKey generates Redis key for user's tokens on a platform
// Format: concord:token:{userId}:{platformId}
func (s *TokenStore) tokenKey(userId int64, platformId int) string {
	return fmt.Sprintf("%s%d:%d", s.keyPrefix, userId, platformId)
}

// StoreToken stores a token in Redis with status
func (s *TokenStore) StoreToken(ctx context.Context, userId int64, platformId int, token string) error {
	key := s.tokenKey(userId, platformId)

	if err := s.rdb.HSet(ctx, key, token, TokenStatusNormal).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if err := s.rdb.Expire(ctx, key, s.accessExpire).Err(); err != nil {
		return fmt.Errorf("failed to set token expiration: %w", err)
	}

	return nil
}

// IsTokenValid checks if token is valid (exists and has normal status)
func (s *TokenStore) IsTokenValid(ctx context.Context, userId int64, platformId int, token string) (bool, error) {
	key := s.tokenKey(userId, platformId)

	statusStr, err := s.rdb.HGet(ctx, key, token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get token status: %w", err)
	}

	status, err := strconv.Atoi(statusStr)
	if err != nil {
		return false, fmt.Errorf("invalid token status value: %w", err)
	}

	return status == TokenStatusNormal, nil
}

// InvalidateToken marks a token as invalid (logout)
func (s *TokenStore) InvalidateToken(ctx context.Context, userId int64, platformId int, token string) error {
	key := s.tokenKey(userId, platformId)

	exists, err := s.rdb.HExists(ctx, key, token).Result()
	if err != nil {
		return fmt.Errorf("failed to check token existence: %w", err)
	}
	if !exists {
		return nil
	}

	if err := s.rdb.HSet(ctx, key, token, TokenStatusLogout).Err(); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}

	return nil
}
