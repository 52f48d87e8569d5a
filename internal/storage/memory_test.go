package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStorePutGetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := domain.NewSession(42, time.Now())
	session.State = domain.StateAwaitingName
	session.Language = domain.LanguageAmharic
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, session.State, got.State)
	require.Equal(t, session.Language, got.Language)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := domain.NewSession(42, time.Now())
	require.NoError(t, store.Put(ctx, session))

	first, err := store.Get(ctx, 42)
	require.NoError(t, err)
	first.DisplayName = "mutated without Put"

	second, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Empty(t, second.DisplayName)
}

func TestMemoryStoreReset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.NewSession(42, time.Now())))
	require.NoError(t, store.Reset(ctx, 42))

	_, err := store.Get(ctx, 42)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Resetting an absent user is not an error.
	require.NoError(t, store.Reset(ctx, 42))
}
