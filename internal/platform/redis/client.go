// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the connection to the volatile store.

Quinca keeps three kinds of short-lived data in Redis:

  - refresh sessions (hashed refresh token → account id, 30 days),
  - pending two-factor challenges (account id → marker, minutes),
  - shared terminal session state for tills that hand over between cashiers.

Nothing stored here is authoritative; losing it logs users out.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds a single health probe.
const pingTimeout = 2 * time.Second

/*
NewClient connects to the Redis instance at redisURL and verifies it answers.

Parameters:
  - ctx: context.Context (bounds the first ping)
  - redisURL: string (redis:// or rediss://)
  - logger: *slog.Logger

Returns:
  - *redis.Client: Ready client, owned by the caller
  - error: Malformed URL or unreachable server
*/
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	tune(options)

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// tune sizes the pool for a handful of tills; every call is a single key
// read or write.
func tune(options *redis.Options) {
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxRetries = 2
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = 2 * time.Second
	options.WriteTimeout = 2 * time.Second
}

// Ping reports whether client answers within [pingTimeout].
func Ping(ctx context.Context, client redis.UniversalClient) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
