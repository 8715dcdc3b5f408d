package style

import (
	"testing"
	"time"

	"github.com/issa-plus/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGlowDisabledSuppressesEverything(t *testing.T) {
	for _, effect := range []string{
		config.EffectNeon, config.EffectShadow, config.EffectOutline,
		config.EffectSparkle, config.EffectGradientAnimation, config.EffectNewYear,
	} {
		s := config.DefaultTitleSettings()
		s.GlowEnabled = false
		s.EffectType = effect

		d := Resolve(s)
		assert.Empty(t, d.Shadow, effect)
		assert.Nil(t, d.Animation, effect)
	}
}

func TestResolveGradientFill(t *testing.T) {
	for _, effect := range []string{
		config.EffectNeon, config.EffectShadow, config.EffectOutline,
		config.EffectSparkle, config.EffectNewYear,
	} {
		s := config.DefaultTitleSettings()
		s.UseGradient = true
		s.GradientStart = "#111111"
		s.GradientEnd = "#222222"
		s.Color = "#333333"
		s.EffectType = effect

		d := Resolve(s)
		require.Equal(t, FillGradient, d.Fill.Kind, effect)
		assert.Equal(t, "#111111", d.Fill.GradientStart)
		assert.Equal(t, "#222222", d.Fill.GradientEnd)
		assert.Empty(t, d.Fill.Color)
	}
}

func TestResolveDefaultsProduceNeonPulse(t *testing.T) {
	s := config.DefaultTitleSettings()

	require.Equal(t, "Issa Plus", s.Text)
	require.Equal(t, config.EffectNeon, s.EffectType)
	require.True(t, s.GlowEnabled)

	d := Resolve(s)
	assert.Equal(t, FillFlat, d.Fill.Kind)
	assert.Equal(t, "#43e97b", d.Fill.Color)
	require.NotNil(t, d.Animation)
	assert.Equal(t, AnimNeonPulse, d.Animation.Name)
	assert.Equal(t, 1600*time.Millisecond, d.Animation.Period)

	// Pulse alternates between intensity and twice intensity.
	require.Len(t, d.Animation.Keyframes, 3)
	assert.Equal(t, config.DefaultGlowIntensity, d.Animation.Keyframes[0].Shadow[0].Blur)
	assert.Equal(t, 2*config.DefaultGlowIntensity, d.Animation.Keyframes[1].Shadow[0].Blur)
}

func TestResolveUnknownEffectFallsBackToNeon(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = "disco-ball"

	d := Resolve(s)
	require.NotNil(t, d.Animation)
	assert.Equal(t, AnimNeonPulse, d.Animation.Name)
}

func TestResolveShadowEffect(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectShadow
	s.GlowIntensity = 20
	s.GlowSpread = 60

	d := Resolve(s)
	assert.Nil(t, d.Animation)
	require.Len(t, d.Shadow, 3)
	assert.Equal(t, ShadowLayer{OffsetX: 3, OffsetY: 3, Color: s.GlowColor}, d.Shadow[0])
	assert.Equal(t, 20, d.Shadow[1].Blur)
	assert.Equal(t, 60, d.Shadow[2].Blur)
}

func TestResolveOutlineEffect(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectOutline

	d := Resolve(s)
	assert.Nil(t, d.Animation)
	// Four 1px strokes plus the two glow rings.
	require.Len(t, d.Shadow, 6)
	offsets := 0
	for _, l := range d.Shadow[:4] {
		assert.Zero(t, l.Blur)
		offsets += abs(l.OffsetX) + abs(l.OffsetY)
	}
	assert.Equal(t, 4, offsets)
}

func TestResolveSparkleEffect(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectSparkle

	d := Resolve(s)
	require.NotNil(t, d.Animation)
	assert.Equal(t, AnimSparkle, d.Animation.Name)
	assert.Equal(t, 2000*time.Millisecond, d.Animation.Period)
	assert.Len(t, d.Animation.Keyframes, 5)
}

func TestResolveGradientAnimationFillTransparent(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectGradientAnimation
	s.UseGradient = true // overridden by the animated gradient

	d := Resolve(s)
	assert.Equal(t, FillTransparent, d.Fill.Kind)
	require.NotNil(t, d.Animation)
	assert.Equal(t, AnimGradientShift, d.Animation.Name)
	require.NotEmpty(t, d.Animation.Keyframes)
	assert.Equal(t, []string{s.GlowColor, s.Color, s.GlowColor}, d.Animation.Keyframes[0].GradientStops)
	// The static ring stays underneath the animation.
	require.Len(t, d.Shadow, 1)
}

func TestResolveGradientAnimationGlowOffUsesStaticFill(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectGradientAnimation
	s.GlowEnabled = false
	s.UseGradient = true

	d := Resolve(s)
	assert.Equal(t, FillGradient, d.Fill.Kind)
	assert.Nil(t, d.Animation)
}

func TestResolveNewYearIgnoresGlowColor(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectNewYear
	s.GlowColor = "#123456"

	d := Resolve(s)
	require.NotNil(t, d.Animation)
	assert.Equal(t, AnimNewYear, d.Animation.Name)
	for _, kf := range d.Animation.Keyframes {
		for _, layer := range kf.Shadow {
			assert.NotEqual(t, s.GlowColor, layer.Color)
		}
	}
}

func TestResolveSubstitutesDefaultsForOutOfRangeValues(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectShadow
	s.GlowIntensity = 0   // unset
	s.GlowSpread = 500    // out of range
	s.Color = ""          // missing
	s.GlowColor = ""

	d := Resolve(s)
	assert.Equal(t, config.DefaultTitleColor, d.Fill.Color)
	assert.Equal(t, config.DefaultGlowIntensity, d.Shadow[1].Blur)
	assert.Equal(t, config.DefaultGlowSpread, d.Shadow[2].Blur)
	assert.Equal(t, config.DefaultGlowColor, d.Shadow[1].Color)
}

func TestResolveIsDeterministic(t *testing.T) {
	s := config.DefaultTitleSettings()
	s.EffectType = config.EffectSparkle

	assert.Equal(t, Resolve(s), Resolve(s))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
