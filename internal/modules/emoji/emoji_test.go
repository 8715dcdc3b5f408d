package emoji

import (
	"context"
	"testing"

	"github.com/issa-plus/core/internal/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlacklistService() *Service {
	// Blacklist operations only touch the KV store.
	return NewService(nil, kv.NewMemoryStore(0), nil)
}

func TestBlacklistStartsEmpty(t *testing.T) {
	svc := newBlacklistService()
	keys, err := svc.Blacklist(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestHideAndUnhide(t *testing.T) {
	ctx := context.Background()
	svc := newBlacklistService()

	require.NoError(t, svc.Hide(ctx, StdKeyPrefix+"🎉"))
	require.NoError(t, svc.Hide(ctx, StdKeyPrefix+"🔥"))

	keys, err := svc.Blacklist(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"std|🎉", "std|🔥"}, keys)

	require.NoError(t, svc.Unhide(ctx, StdKeyPrefix+"🎉"))
	keys, err = svc.Blacklist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"std|🔥"}, keys)
}

func TestHideIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newBlacklistService()

	require.NoError(t, svc.Hide(ctx, "std|🎉"))
	require.NoError(t, svc.Hide(ctx, "std|🎉"))

	keys, err := svc.Blacklist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"std|🎉"}, keys)
}

func TestUnhideMissingKeyIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc := newBlacklistService()

	require.NoError(t, svc.Unhide(ctx, "std|👻"))
	keys, err := svc.Blacklist(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestHideRejectsEmptyKey(t *testing.T) {
	svc := newBlacklistService()
	assert.Error(t, svc.Hide(context.Background(), "   "))
}
