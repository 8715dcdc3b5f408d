package preset

import (
	"context"
	"testing"
	"time"

	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(kv.NewMemoryStore(0))
}

func strPtr(s string) *string { return &s }
func bPtr(b bool) *bool       { return &b }

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Save(ctx, Preset{ID: "1700000000001", Name: "Festive", Settings: Style{EffectType: strPtr(config.EffectNewYear)}})
	require.NoError(t, err)
	_, err = svc.Save(ctx, Preset{ID: "1700000000002", Name: "Calm", Settings: Style{GlowEnabled: bPtr(false)}})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestSaveUpsertsById(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, err := svc.Save(ctx, Preset{ID: "p1", Name: "Original"})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	updated, err := svc.Save(ctx, Preset{ID: "p1", Name: "Renamed", Settings: Style{Color: strPtr("#ffffff")}})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Renamed", items[0].Name)
	// Replacing in place keeps the original creation time.
	assert.Equal(t, first.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestSaveRejectsMissingFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Save(ctx, Preset{ID: "", Name: "x"})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = svc.Save(ctx, Preset{ID: "x", Name: "  "})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Save(ctx, Preset{ID: "p1", Name: "One"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "p1"))
	require.NoError(t, svc.Delete(ctx, "p1"))
	require.NoError(t, svc.Delete(ctx, "never-existed"))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteUnknownIdLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Save(ctx, Preset{ID: "keep", Name: "Keeper"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "ghost"))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "keep", items[0].ID)
}

func TestApplyMergesOnlyDefinedFields(t *testing.T) {
	draft := config.DefaultTitleSettings()
	draft.Text = "Draft Title"
	draft.AvatarImage = "data:image/png;base64,AAAA"
	draft.SnowmanPositionX = 33
	draft.GlowIntensity = 40

	p := Preset{
		ID:   "p1",
		Name: "Partial",
		Settings: Style{
			Color:      strPtr("#abcdef"),
			EffectType: strPtr(config.EffectOutline),
		},
	}

	out := p.Apply(draft)
	assert.Equal(t, "#abcdef", out.Color)
	assert.Equal(t, config.EffectOutline, out.EffectType)
	// Undefined style fields and everything outside the style subset stay.
	assert.Equal(t, "Draft Title", out.Text)
	assert.Equal(t, 40, out.GlowIntensity)
	assert.Equal(t, "data:image/png;base64,AAAA", out.AvatarImage)
	assert.Equal(t, 33, out.SnowmanPositionX)
}

func TestApplyThenSaveLoadKeepsNonStyleFields(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore(0)
	svc := NewService(store)

	captured := config.DefaultTitleSettings()
	captured.Text = "Preset Text"
	captured.Color = "#101010"
	captured.GlowIntensity = 7
	_, err := svc.Save(ctx, Preset{ID: "p1", Name: "Full", Settings: Capture(captured)})
	require.NoError(t, err)

	draft := config.DefaultTitleSettings()
	draft.AvatarImage = "data:image/png;base64,KEEP"
	draft.AvatarPositionX = 12

	p, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)

	merged := p.Apply(draft)
	assert.Equal(t, "Preset Text", merged.Text)
	assert.Equal(t, "#101010", merged.Color)
	assert.Equal(t, 7, merged.GlowIntensity)
	assert.Equal(t, "data:image/png;base64,KEEP", merged.AvatarImage)
	assert.Equal(t, 12, merged.AvatarPositionX)
}

func TestRegistryIndependentFromSettingsBlob(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore(0)
	svc := NewService(store)

	_, err := svc.Save(ctx, Preset{ID: "p1", Name: "One"})
	require.NoError(t, err)

	// The registry lives under its own key.
	_, err = store.Get(ctx, PresetsKey)
	assert.NoError(t, err)
	_, err = store.Get(ctx, "title:settings")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestGetUnknownReturnsNil(t *testing.T) {
	svc := newTestService()
	p, err := svc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}
