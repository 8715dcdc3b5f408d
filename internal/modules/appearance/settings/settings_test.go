package settings

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(maxSize int) (*Service, *kv.MemoryStore) {
	store := kv.NewMemoryStore(maxSize)
	return NewService(store, kv.NewBus(), zap.NewNop()), store
}

func jpegDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestLoadEmptyStoreReturnsDefaults(t *testing.T) {
	svc, _ := newTestService(0)
	assert.Equal(t, config.DefaultTitleSettings(), svc.Load(context.Background()))
}

func TestLoadCorruptBlobReturnsDefaults(t *testing.T) {
	svc, store := newTestService(0)
	require.NoError(t, store.Set(context.Background(), SettingsKey, "{not json"))
	assert.Equal(t, config.DefaultTitleSettings(), svc.Load(context.Background()))
}

func TestLoadPartialBlobMergesOverDefaults(t *testing.T) {
	svc, store := newTestService(0)
	require.NoError(t, store.Set(context.Background(), SettingsKey, `{"text":"Team HR","glowIntensity":25}`))

	got := svc.Load(context.Background())
	assert.Equal(t, "Team HR", got.Text)
	assert.Equal(t, 25, got.GlowIntensity)
	// Everything absent from the blob keeps its default.
	assert.Equal(t, config.DefaultFontSize, got.FontSize)
	assert.Equal(t, config.EffectNeon, got.EffectType)
	assert.True(t, got.GlowEnabled)
}

func TestSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)

	in := config.DefaultTitleSettings()
	in.Text = "Issa Plus HR"
	in.EffectType = config.EffectSparkle
	in.UseGradient = true
	in.GradientStart = "#ff0000"
	in.GradientEnd = "#0000ff"

	res, err := svc.Save(ctx, in)
	require.NoError(t, err)
	assert.False(t, res.ImagesStripped)
	assert.Empty(t, res.FailedImages)

	assert.Equal(t, in, svc.Load(ctx))
}

func TestSaveBroadcastsChange(t *testing.T) {
	svc, _ := newTestService(0)
	ch, cancel := svc.Bus().Subscribe()
	defer cancel()

	in := config.DefaultTitleSettings()
	in.Text = "changed"
	_, err := svc.Save(context.Background(), in)
	require.NoError(t, err)

	change := <-ch
	assert.Equal(t, SettingsKey, change.Key)
	assert.Contains(t, change.Value, `"text":"changed"`)
}

func TestSaveOversizePayloadStripsImages(t *testing.T) {
	ctx := context.Background()
	// Small cap so a plain payload trips the store quota.
	svc, _ := newTestService(2048)

	in := config.DefaultTitleSettings()
	in.Text = "keep me"
	// Not a data URI, so normalization leaves it alone, and it alone
	// exceeds the cap.
	in.AvatarImage = "https://cdn.example.com/" + strings.Repeat("x", 4096)
	in.SnowmanImage = "https://cdn.example.com/y.png"

	res, err := svc.Save(ctx, in)
	require.NoError(t, err)
	assert.True(t, res.ImagesStripped)
	assert.Empty(t, res.Settings.AvatarImage)
	assert.Empty(t, res.Settings.SnowmanImage)

	got := svc.Load(ctx)
	assert.Equal(t, "keep me", got.Text)
	assert.Empty(t, got.AvatarImage)
	assert.Empty(t, got.SnowmanImage)
}

func TestSaveNormalizesEmbeddedImages(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)

	in := config.DefaultTitleSettings()
	in.AvatarImage = jpegDataURI(t, 800, 800)

	res, err := svc.Save(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, res.FailedImages)
	// Downscaled re-encode is smaller than the original.
	assert.Less(t, len(res.Settings.AvatarImage), len(in.AvatarImage))
	assert.True(t, strings.HasPrefix(res.Settings.AvatarImage, "data:image/"))
}

func TestSaveBrokenImageKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)

	first := config.DefaultTitleSettings()
	first.AvatarImage = jpegDataURI(t, 100, 100)
	res, err := svc.Save(ctx, first)
	require.NoError(t, err)
	goodAvatar := res.Settings.AvatarImage

	second := svc.Load(ctx)
	second.Text = "second save"
	second.AvatarImage = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))

	res, err = svc.Save(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []string{"avatarImage"}, res.FailedImages)
	assert.Equal(t, goodAvatar, res.Settings.AvatarImage)
	assert.Equal(t, "second save", res.Settings.Text)
}

func TestResetRestoresDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(0)

	in := config.DefaultTitleSettings()
	in.Text = "custom"
	_, err := svc.Save(ctx, in)
	require.NoError(t, err)

	def, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTitleSettings(), def)
	assert.Equal(t, config.DefaultTitleSettings(), svc.Load(ctx))
}
