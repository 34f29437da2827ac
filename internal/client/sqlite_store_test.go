package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTokenStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLiteTokenStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "first"))
	require.NoError(t, store.Save(ctx, "second"))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, store.Clear(ctx))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSQLiteTokenStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	store, err := OpenSQLiteTokenStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "persisted"))
	require.NoError(t, store.Close())

	store, err = OpenSQLiteTokenStore(ctx, path)
	require.NoError(t, err)
	defer store.Close()
	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}
