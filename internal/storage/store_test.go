// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "openai-api-key", "sk-one"))
	v, err := store.Get(ctx, "openai-api-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-one", v)

	require.NoError(t, store.Set(ctx, "openai-api-key", "sk-two"))
	v, err = store.Get(ctx, "openai-api-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-two", v)

	require.NoError(t, store.Delete(ctx, "openai-api-key"))
	_, err = store.Get(ctx, "openai-api-key")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is fine.
	require.NoError(t, store.Delete(ctx, "openai-api-key"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "openai-api-key", "sk-test"))
	require.NoError(t, first.Close())

	second, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := second.Get(ctx, "openai-api-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Mode().Perm()&0077 != 0 {
		t.Errorf("store file is group/world accessible: %o", info.Mode().Perm())
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_Closed(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Set(context.Background(), "k", "v"), ErrClosed)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "lumen.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lumen.db")

	first, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "openai-api-key", "sk-test"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	v, err := second.Get(ctx, "openai-api-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", v)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("LUMEN_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LUMEN_TEST_REDIS_URL not set")
	}

	store, err := NewRedisStore(context.Background(), url)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "default is file", opts: Options{Path: filepath.Join(dir, "a.json")}},
		{name: "file", opts: Options{Backend: "file", Path: filepath.Join(dir, "b.json")}},
		{name: "sqlite", opts: Options{Backend: "SQLite", Path: filepath.Join(dir, "c.db")}},
		{name: "memory", opts: Options{Backend: "memory"}},
		{name: "unknown", opts: Options{Backend: "etcd"}, wantErr: ErrUnknownBackend},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := Open(ctx, tc.opts)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, store.Close())
		})
	}
}

func TestOpen_RedisRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "redis"})
	assert.Error(t, err)
}
