package style

import (
	"testing"
	"time"

	"github.com/issa-plus/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestSnowActiveTriState(t *testing.T) {
	july := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)

	s := config.DefaultTitleSettings()
	s.SnowEnabled = boolPtr(true)
	assert.True(t, SnowActive(s, july))

	s.SnowEnabled = boolPtr(false)
	december := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)
	assert.False(t, SnowActive(s, december))
}

func TestSnowActiveSeasonalWindow(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.SnowEnabled = nil

	cases := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SnowActive(s, tc.date), tc.date.Format("2006-01-02"))
	}
}

func TestSnowParticlesDeterministicPerSeed(t *testing.T) {
	a := SnowParticles(30, 42)
	b := SnowParticles(30, 42)
	require.Equal(t, a, b)

	c := SnowParticles(30, 43)
	assert.NotEqual(t, a, c)
}

func TestSnowParticlesRanges(t *testing.T) {
	for _, p := range SnowParticles(100, 7) {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, 100.0)
		assert.GreaterOrEqual(t, p.Drift, -20.0)
		assert.LessOrEqual(t, p.Drift, 20.0)
		assert.GreaterOrEqual(t, p.FallDistance, 80.0)
		assert.LessOrEqual(t, p.FallDistance, 120.0)
		assert.NotEmpty(t, p.Glyph)
		assert.Greater(t, p.Duration, time.Duration(0))
	}
}

func TestComposeWinterIncludesParticles(t *testing.T) {
	s := config.DefaultTitleSettings()
	december := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

	surf := Compose(s, december, "Anna", 1)
	assert.True(t, surf.Snow)
	assert.Len(t, surf.Particles, DefaultParticleCount)
}

func TestComposeMascotRequiresImageAndToggle(t *testing.T) {
	s := config.DefaultTitleSettings()
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	surf := Compose(s, now, "", 1)
	assert.Nil(t, surf.Mascot)

	s.SnowmanEnabled = true
	surf = Compose(s, now, "", 1)
	assert.Nil(t, surf.Mascot) // no image yet

	s.SnowmanImage = "data:image/png;base64,AAAA"
	s.SnowmanPositionX = 10
	s.SnowmanPositionY = -5
	s.SnowmanScale = 150
	s.SnowmanPositionType = config.PositionAbsolute
	surf = Compose(s, now, "", 1)
	require.NotNil(t, surf.Mascot)
	assert.Equal(t, config.PositionAbsolute, surf.Mascot.Anchor)
	assert.Equal(t, 10, surf.Mascot.OffsetX)
	assert.Equal(t, -5, surf.Mascot.OffsetY)
	assert.Equal(t, 150, surf.Mascot.Scale)
}

func TestComposeMascotScaleClamped(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.SnowmanEnabled = true
	s.SnowmanImage = "data:image/png;base64,AAAA"
	s.SnowmanScale = 900
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	surf := Compose(s, now, "", 1)
	require.NotNil(t, surf.Mascot)
	assert.Equal(t, config.DefaultSnowmanScale, surf.Mascot.Scale)
}

func TestComposeAvatarPlaceholder(t *testing.T) {
	s := config.DefaultTitleSettings()
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	surf := Compose(s, now, "anna", 1)
	require.NotNil(t, surf.Avatar)
	assert.Empty(t, surf.Avatar.Image)
	assert.Equal(t, "A", surf.Avatar.Placeholder)
	assert.Equal(t, config.DefaultAvatarSize, surf.Avatar.Width)

	s.AvatarImage = "data:image/jpeg;base64,AAAA"
	surf = Compose(s, now, "anna", 1)
	require.NotNil(t, surf.Avatar)
	assert.Empty(t, surf.Avatar.Placeholder)
	assert.Equal(t, s.AvatarImage, surf.Avatar.Image)
}

func TestComposeNoAvatarWithoutImageOrName(t *testing.T) {
	s := config.DefaultTitleSettings()
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	surf := Compose(s, now, "  ", 1)
	assert.Nil(t, surf.Avatar)
}
