package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_PutAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	fetched := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	err := st.Put(ctx, Entry{Date: "2024-03-10", Value: 36892.15, FetchedAt: fetched})
	require.NoError(t, err)

	e, err := st.Get(ctx, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "2024-03-10", e.Date)
	assert.Equal(t, 36892.15, e.Value)
	assert.WithinDuration(t, fetched, e.FetchedAt, time.Second)
}

func TestSQLite_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	e, err := st.Get(ctx, "1999-01-01")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestSQLite_PutOverwrites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.Put(ctx, Entry{Date: "2024-03-10", Value: 36892.15})
	require.NoError(t, err)
	err = st.Put(ctx, Entry{Date: "2024-03-10", Value: 36901.02})
	require.NoError(t, err)

	e, err := st.Get(ctx, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 36901.02, e.Value)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_PutFillsFetchedAt(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.Put(ctx, Entry{Date: "2024-03-10", Value: 36892.15})
	require.NoError(t, err)

	e, err := st.Get(ctx, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.WithinDuration(t, time.Now().UTC(), e.FetchedAt, time.Minute)
}

func TestSQLite_PutBatchAndAll(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	// Insert out of order; All must come back date-ascending.
	err := st.PutBatch(ctx, []Entry{
		{Date: "2024-03-12", Value: 36910.44},
		{Date: "2024-03-10", Value: 36892.15},
		{Date: "2024-03-11", Value: 36901.02},
	})
	require.NoError(t, err)

	entries, err := st.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-03-10", entries[0].Date)
	assert.Equal(t, "2024-03-11", entries[1].Date)
	assert.Equal(t, "2024-03-12", entries[2].Date)
}

func TestSQLite_PutBatchEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.PutBatch(ctx, nil))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLite_PutBatchUpserts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.Put(ctx, Entry{Date: "2024-03-10", Value: 36892.15})
	require.NoError(t, err)

	err = st.PutBatch(ctx, []Entry{
		{Date: "2024-03-10", Value: 36899.99},
		{Date: "2024-03-11", Value: 36901.02},
	})
	require.NoError(t, err)

	e, err := st.Get(ctx, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 36899.99, e.Value)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLite_CountEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)

	// Migrate was already called in newTestSQLiteStore; calling again should not error.
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	require.NoError(t, st.Put(ctx, Entry{Date: "2024-03-10", Value: 36892.15}))
	require.NoError(t, st.Close())

	st2, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer st2.Close() //nolint:errcheck

	e, err := st2.Get(ctx, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 36892.15, e.Value)
}
