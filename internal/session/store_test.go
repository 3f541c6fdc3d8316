// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/session"
)

func TestStores(t *testing.T) {
	factories := []struct {
		name  string
		build func(t *testing.T) session.Store
	}{
		{"memory", func(*testing.T) session.Store { return session.NewMemoryStore() }},
		{"file", func(t *testing.T) session.Store {
			return session.NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
		}},
		{"redis", func(t *testing.T) session.Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return session.NewRedisStore(client, "till-1")
		}},
	}

	for _, factory := range factories {
		t.Run(factory.name, func(t *testing.T) {
			ctx := context.Background()
			store := factory.build(t)

			_, found, err := store.Get(ctx, session.KeyUser)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set(ctx, session.KeyAccessToken, "a"))
			require.NoError(t, store.Set(ctx, session.KeyRefreshToken, "r"))
			require.NoError(t, store.Set(ctx, session.KeyAccessToken, "b"))

			value, found, err := store.Get(ctx, session.KeyAccessToken)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "b", value)

			require.NoError(t, store.Delete(ctx, session.KeyAccessToken, session.KeyUser))
			require.NoError(t, store.Delete(ctx))

			_, found, err = store.Get(ctx, session.KeyAccessToken)
			require.NoError(t, err)
			assert.False(t, found)

			value, _, err = store.Get(ctx, session.KeyRefreshToken)
			require.NoError(t, err)
			assert.Equal(t, "r", value)
		})
	}
}

func TestFileStore_PermissionsAndPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, session.NewFileStore(path).Set(ctx, session.KeyAccessToken, "token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	value, found, err := session.NewFileStore(path).Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "token", value)
}

func TestFileStore_CorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	store := session.NewFileStore(path)
	_, found, err := store.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	assert.False(t, found)

	manager := session.NewManager(store, session.NewDirectoryBackend())
	require.NoError(t, manager.Restore(ctx))
	assert.False(t, manager.IsAuthenticated())
}

func TestRedisStore_IsolatesTerminals(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	first := session.NewRedisStore(client, "till-1")
	second := session.NewRedisStore(client, "till-2")

	require.NoError(t, first.Set(ctx, session.KeyAccessToken, "one"))

	_, found, err := second.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "one", mr.HGet("terminal:till-1", session.KeyAccessToken))
}
