// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
)

// RedisResetTokenRepository implements [ResetTokenRepository] using Redis.
//
// Only the SHA-256 of a token is used in the key, so a dump of Redis does
// not reveal usable tokens.
type RedisResetTokenRepository struct {
	client redis.Cmdable
}

// NewResetTokenRepository creates a new Redis-backed [ResetTokenRepository].
func NewResetTokenRepository(client redis.Cmdable) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func resetTokenKey(token string) string {
	return constants.RedisPrefixResetToken + sec.HashToken(token)
}

/*
Set stores a reset token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, resetTokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the userID for a given token.

Returns:
  - string: member id
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, resetTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token").WithCause(err)
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}
	return userID, nil
}

// Delete removes the token from Redis.
func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	if err := repository.client.Del(context, resetTokenKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}
	return nil
}

// # Disabled Reset Tokens

// DisabledResetTokenRepository is used when no Redis is configured. Every
// operation reports the feature as unavailable.
type DisabledResetTokenRepository struct{}

func (DisabledResetTokenRepository) Set(context.Context, string, string, time.Duration) error {
	return apperr.ServiceUnavailable("Password reset is not available")
}

func (DisabledResetTokenRepository) Get(context.Context, string) (string, error) {
	return "", apperr.ServiceUnavailable("Password reset is not available")
}

func (DisabledResetTokenRepository) Delete(context.Context, string) error { return nil }
