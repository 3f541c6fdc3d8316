// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/quinca/internal/platform/constants"
)

// Store is the key-value persistence of a terminal session.
type Store interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// # Memory

// MemoryStore is a [Store] living in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	value, found := store.values[key]
	return value, found, nil
}

// Set implements [Store].
func (store *MemoryStore) Set(_ context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.values[key] = value
	return nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, keys ...string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, key := range keys {
		delete(store.values, key)
	}
	return nil
}

// # File

// FileStore is a [Store] backed by a single JSON object on disk, readable by
// its owner only. Every write replaces the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a [FileStore] at path. The file and its directory are
// created on the first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (store *FileStore) load() (map[string]string, error) {
	payload, err := os.ReadFile(store.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session_file_read_failed: %w", err)
	}

	values := map[string]string{}
	if len(payload) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(payload, &values); err != nil {
		// A corrupted file is an empty session.
		return map[string]string{}, nil
	}
	return values, nil
}

func (store *FileStore) save(values map[string]string) error {
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("session_file_marshal_failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("session_file_mkdir_failed: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(store.path), ".session-*")
	if err != nil {
		return fmt.Errorf("session_file_create_failed: %w", err)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(payload); err != nil {
		temp.Close()
		return fmt.Errorf("session_file_write_failed: %w", err)
	}
	if err := temp.Chmod(0o600); err != nil {
		temp.Close()
		return fmt.Errorf("session_file_chmod_failed: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("session_file_close_failed: %w", err)
	}

	if err := os.Rename(temp.Name(), store.path); err != nil {
		return fmt.Errorf("session_file_rename_failed: %w", err)
	}
	return nil
}

// Get implements [Store].
func (store *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.load()
	if err != nil {
		return "", false, err
	}
	value, found := values[key]
	return value, found, nil
}

// Set implements [Store].
func (store *FileStore) Set(_ context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.load()
	if err != nil {
		return err
	}
	values[key] = value
	return store.save(values)
}

// Delete implements [Store].
func (store *FileStore) Delete(_ context.Context, keys ...string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.load()
	if err != nil {
		return err
	}

	before := maps.Clone(values)
	for _, key := range keys {
		delete(values, key)
	}
	if maps.Equal(before, values) {
		return nil
	}
	return store.save(values)
}

// # Redis

// RedisStore is a [Store] keeping one Redis hash per terminal, so that the
// tills of a shop can share a session host.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore returns a [RedisStore] for terminalID.
func NewRedisStore(client redis.UniversalClient, terminalID string) *RedisStore {
	return &RedisStore{client: client, key: constants.RedisPrefixTerminalState + terminalID}
}

// Get implements [Store].
func (store *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := store.client.HGet(ctx, store.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session_redis_get_failed: %w", err)
	}
	return value, true, nil
}

// Set implements [Store].
func (store *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := store.client.HSet(ctx, store.key, key, value).Err(); err != nil {
		return fmt.Errorf("session_redis_set_failed: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (store *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := store.client.HDel(ctx, store.key, keys...).Err(); err != nil {
		return fmt.Errorf("session_redis_delete_failed: %w", err)
	}
	return nil
}
