package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/suspension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuspensionStore_AppendAndIsSuspended(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "suspended_users.csv")
	store, err := NewSuspensionStore(newTestLogger(), path)
	require.NoError(t, err)

	suspended, err := store.IsSuspended(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, suspended)

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, suspension.NewEntry("u1", at)))
	require.NoError(t, store.Append(ctx, suspension.NewEntry("u1", at.Add(time.Hour))))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "u1,2024-01-01 12:00:00\nu1,2024-01-01 13:00:00\n", string(content))

	suspended, err = store.IsSuspended(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, suspended)

	suspended, err = store.IsSuspended(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, suspended)

	entries, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, at, entries[0].SuspendedAt)
	assert.Equal(t, at.Add(time.Hour), entries[1].SuspendedAt)
}

func TestSuspensionStore_SkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suspended_users.csv")
	require.NoError(t, os.WriteFile(path, []byte("\"broken,row\nu3,2024-01-01 00:00:00\n"), 0o644))

	store, err := NewSuspensionStore(newTestLogger(), path)
	require.NoError(t, err)

	suspended, err := store.IsSuspended(context.Background(), "u9")
	require.NoError(t, err)
	assert.False(t, suspended)
}
