package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/milestones/internal/config"
	"github.com/runnerr0/milestones/internal/milestone"
)

// openTestStore creates a migrated SQLite store in a temp directory.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "milestones.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func openTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

// --- SQLite ---

func TestSQLite_GetMissingKey(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_PutOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("one")))
	require.NoError(t, store.Put(ctx, "k", []byte("two")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Keys)
	assert.Equal(t, int64(3), stats.ValueBytes)
	assert.Equal(t, int64(2), stats.Writes, "every put is audited")
	assert.False(t, stats.LastWrite.IsZero())
}

func TestSQLite_StatsEmpty(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Keys)
	assert.Equal(t, int64(0), stats.Writes)
	assert.True(t, stats.LastWrite.IsZero())
}

func TestSQLite_DetectsCorruptedValue(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte(`[{"id":"a"}]`)))
	_, err := store.db.Exec(`UPDATE kv SET value = ? WHERE key = 'k'`, []byte(`[]`))
	require.NoError(t, err)

	_, err = store.Get(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "milestones.db")
	ctx := context.Background()

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "k", []byte("v")))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestSQLite_CloseLeavesBorrowedDB(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, NewMigrationRunner(db).Run(context.Background()))

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NoError(t, db.Ping(), "caller still owns the database")
}

// --- Redis ---

func TestRedis_PutGet(t *testing.T) {
	store, mr := openTestRedis(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "k", []byte("value")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	raw, err := mr.Get("test:k")
	require.NoError(t, err)
	assert.Equal(t, "value", raw, "keys are prefixed")
	assert.Zero(t, mr.TTL("test:k"), "values never expire")
}

func TestRedis_Ping(t *testing.T) {
	store, _ := openTestRedis(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedis_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), "redis://"+addr, "")
	assert.Error(t, err)
}

func TestRedis_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not a url", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

// --- Postgres ---

func TestPostgres_PutGet(t *testing.T) {
	url := os.Getenv("MILESTONES_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("MILESTONES_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	key := "test-" + t.Name()
	require.NoError(t, store.Put(ctx, key, []byte("one")))
	require.NoError(t, store.Put(ctx, key, []byte("two")))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	_, err = store.Get(ctx, key+"-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- MilestoneStore ---

func TestMilestoneStore_MissingKeyIsEmpty(t *testing.T) {
	s := NewMilestoneStore(openTestStore(t), "")

	ms, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ms)
	assert.Empty(t, ms)
}

func TestMilestoneStore_WritesJSONArray(t *testing.T) {
	kv, _ := openTestRedis(t)
	s := NewMilestoneStore(kv, "")
	ctx := context.Background()

	ms := []milestone.Milestone{
		{ID: "a", Title: "Graduate", Timeline: "Education", Start: "2010-06-01", End: "2010-06-01"},
		{ID: "b", Title: "First Job", Timeline: "Career", Start: "2010-07-01", End: "2015-01-01", Notes: "NYC"},
	}
	require.NoError(t, s.Save(ctx, ms))

	raw, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"a","title":"Graduate","timeline":"Education","start":"2010-06-01","end":"2010-06-01","notes":""},
		{"id":"b","title":"First Job","timeline":"Career","start":"2010-07-01","end":"2015-01-01","notes":"NYC"}
	]`, string(raw))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ms, got)
}

func TestMilestoneStore_EmptyCollectionIsArray(t *testing.T) {
	kv := openTestStore(t)
	s := NewMilestoneStore(kv, "custom")
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, nil))

	raw, err := kv.Get(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestMilestoneStore_CorruptJSON(t *testing.T) {
	kv := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, DefaultKey, []byte("{not json")))

	_, err := NewMilestoneStore(kv, "").Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode milestones")
}

func TestMilestoneStore_NullIsEmpty(t *testing.T) {
	kv := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, DefaultKey, []byte("null")))

	ms, err := NewMilestoneStore(kv, "").Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, ms)
	assert.Empty(t, ms)
}

// --- Open ---

func TestOpen_SQLiteBackend(t *testing.T) {
	cfg := config.DefaultConfig().Storage
	cfg.Path = t.TempDir()

	kv, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer kv.Close()

	_, ok := kv.(*SQLiteStore)
	assert.True(t, ok)

	_, err = os.Stat(filepath.Join(cfg.Path, cfg.SQLiteFile))
	assert.NoError(t, err)
}

func TestOpen_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.DefaultConfig().Storage
	cfg.Backend = config.BackendRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	kv, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer kv.Close()

	_, ok := kv.(*RedisStore)
	assert.True(t, ok)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig().Storage
	cfg.Backend = "etcd"

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
