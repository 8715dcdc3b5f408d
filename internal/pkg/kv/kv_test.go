package kv

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	_, err := s.Get(ctx, "title:settings")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "title:settings", `{"text":"hello"}`))

	v, err := s.Get(ctx, "title:settings")
	require.NoError(t, err)
	assert.Equal(t, `{"text":"hello"}`, v)

	require.NoError(t, s.Delete(ctx, "title:settings"))
	_, err = s.Get(ctx, "title:settings")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteMissingKey(t *testing.T) {
	s := NewMemoryStore(0)
	assert.NoError(t, s.Delete(context.Background(), "never-written"))
}

func TestMemoryStoreSizeCap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(64)

	assert.NoError(t, s.Set(ctx, "small", "ok"))

	err := s.Set(ctx, "big", strings.Repeat("x", 65))
	assert.ErrorIs(t, err, ErrTooLarge)

	// Rejected writes leave prior state intact.
	_, err = s.Get(ctx, "big")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBusFanOut(t *testing.T) {
	b := NewBus()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(Change{Key: "title:settings", Value: "{}"})

	got := <-ch1
	assert.Equal(t, "title:settings", got.Key)
	got = <-ch2
	assert.Equal(t, "title:settings", got.Key)

	cancel1()
	_, open := <-ch1
	assert.False(t, open)

	// Remaining subscriber still receives after one cancels.
	b.Publish(Change{Key: "title:presets"})
	got = <-ch2
	assert.Equal(t, "title:presets", got.Key)
}

func TestBusDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := NewBus()
	_, cancel := b.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer; Publish must not deadlock.
	for i := 0; i < 100; i++ {
		b.Publish(Change{Key: "k"})
	}
}
