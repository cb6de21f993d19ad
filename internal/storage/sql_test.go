package storage

import (
	"context"
	"path/filepath"
	"testing"

	"citizenhub/internal/complaint"
	apperrors "citizenhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQL {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "complaints.db")
	s, err := OpenSQL(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQL_RoundTrip(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	rec := sampleRecord(1001)
	rec.Image = "uploads/1001_leak.jpg"
	require.NoError(t, s.Create(ctx, rec))

	got, err := s.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	rec.Status = complaint.StatusResolved
	require.NoError(t, s.Update(ctx, rec))

	got, err = s.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, complaint.StatusResolved, got.Status)
}

func TestSQL_NotFound(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	_, err := s.Get(ctx, 5)
	assert.True(t, apperrors.IsNotFound(err))

	err = s.Update(ctx, sampleRecord(5))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSQL_DuplicateIsStorageError(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, sampleRecord(3)))
	err := s.Create(ctx, sampleRecord(3))
	assert.True(t, apperrors.IsStorage(err))
}

func TestSQL_List(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, s.Create(ctx, sampleRecord(id)))
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)
}

func TestSQL_SchemaIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	assert.NoError(t, s.EnsureSchema(context.Background()))
}

func TestRebind(t *testing.T) {
	mysql := NewSQL(nil, "mysql")
	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND b = ?", mysql.rebind("SELECT * FROM t WHERE a = $1 AND b = $12"))
	assert.Equal(t, "price $ x", mysql.rebind("price $ x"))

	pg := NewSQL(nil, "pgx")
	assert.Equal(t, "WHERE a = $1", pg.rebind("WHERE a = $1"))
}
