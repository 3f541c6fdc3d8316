// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/quinca/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements [SessionRepository] with one JSON value
// per refresh session, expiring with the session itself.
type RedisSessionRepository struct {
	client redis.UniversalClient
}

// NewSessionRepository creates a new Redis-backed [SessionRepository].
func NewSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

/*
Create stores a session under its token hash until ExpiresAt.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Serialization or connectivity errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_create_failed: session already expired")
	}

	if err := repository.client.Set(context, sessionKey(session.TokenHash), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
FindByTokenHash loads a live session.

Description: Redis expiry is the source of truth; an absent key means the
session was revoked or has expired.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated entity
  - error: ErrSessionNotFound or connectivity errors
*/
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}
	session.TokenHash = tokenHash

	return session, nil
}

/*
Revoke deletes the session.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}

// # Challenge Repository

// RedisChallengeRepository implements [ChallengeRepository].
type RedisChallengeRepository struct {
	client redis.UniversalClient
}

// NewChallengeRepository creates a new Redis-backed [ChallengeRepository].
func NewChallengeRepository(client redis.UniversalClient) *RedisChallengeRepository {
	return &RedisChallengeRepository{client: client}
}

func challengeKey(userID string) string {
	return constants.RedisPrefixTwoFactor + userID
}

// Open implements [ChallengeRepository].
func (repository *RedisChallengeRepository) Open(context context.Context, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, challengeKey(userID), time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("redis_challenge_open_failed: %w", err)
	}
	return nil
}

// Pending implements [ChallengeRepository].
func (repository *RedisChallengeRepository) Pending(context context.Context, userID string) (bool, error) {
	count, err := repository.client.Exists(context, challengeKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_challenge_exists_failed: %w", err)
	}
	return count == 1, nil
}

// Close implements [ChallengeRepository].
func (repository *RedisChallengeRepository) Close(context context.Context, userID string) error {
	if err := repository.client.Del(context, challengeKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_challenge_close_failed: %w", err)
	}
	return nil
}
