package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyToken, "t1"))
	v, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", v)

	require.NoError(t, s.Set(ctx, KeyToken, "t2"))
	v, err = s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t2", v)

	require.NoError(t, s.Set(ctx, KeyUser, `{"id":1,"username":"alice"}`))
	require.NoError(t, s.Delete(ctx, KeyToken))
	_, err = s.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	// Other keys survive, missing keys delete cleanly.
	v, err = s.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"username":"alice"}`, v)
	assert.NoError(t, s.Delete(ctx, KeyToken))

	assert.NoError(t, s.Close())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "state")))
}

func TestFileStore_Permissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s := NewFileStore(dir)
	require.NoError(t, s.Set(context.Background(), KeyToken, "secret"))

	info, err := os.Stat(filepath.Join(dir, KeyToken))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should be cleaned up")
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, s.Set(ctx, key, "x"), "key %q", key)
		_, err := s.Get(ctx, key)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, NewFileStore(dir).Set(ctx, KeyToken, "t1"))

	v, err := NewFileStore(dir).Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", v)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "db", "state.db"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyToken, "t1"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", v)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	s := NewRedisStore(config.RedisConfig{Addr: "localhost:6379", Prefix: "tb:"})
	defer s.Close()
	assert.Equal(t, "tb:token", s.Key(KeyToken))
}

func TestRedisStore_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewRedisStoreWithClient(rdb, "tb:")
	defer s.Close()

	_, err := s.Get(context.Background(), KeyToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Set(context.Background(), KeyToken, "t1"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	cfg.Storage.Backend = config.BackendSQLite
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	cfg.Storage.Backend = config.BackendMemory
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	cfg.Storage.Backend = config.BackendRedis
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	s.Close()

	cfg.Storage.Backend = "s3"
	_, err = Open(ctx, cfg)
	assert.Error(t, err)
}
