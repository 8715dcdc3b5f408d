package style

import (
	"time"

	"github.com/issa-plus/core/internal/config"
)

// New-year effect colors. Fixed by the formula, never taken from settings.
var newYearColors = [4]string{"#e53935", "#43a047", "#ffd700", "#ff69b4"}

// Resolve maps settings to a render descriptor. Out-of-range or missing
// numeric values are substituted with the documented defaults rather than
// rejected, and an unknown effect type behaves as neon.
func Resolve(s config.TitleSettings) Descriptor {
	effect := s.EffectType
	if !config.ValidEffectType(effect) {
		effect = config.EffectNeon
	}

	color := defaultIfEmpty(s.Color, config.DefaultTitleColor)
	glowColor := defaultIfEmpty(s.GlowColor, config.DefaultGlowColor)
	intensity := clamp(s.GlowIntensity, 1, 50, config.DefaultGlowIntensity)
	spread := clamp(s.GlowSpread, 1, 100, config.DefaultGlowSpread)

	d := Descriptor{Fill: resolveFill(s, effect, color)}

	if !s.GlowEnabled {
		return d
	}

	rings := []ShadowLayer{
		{Blur: intensity, Color: glowColor},
		{Blur: spread, Color: glowColor},
	}

	switch effect {
	case config.EffectShadow:
		d.Shadow = append([]ShadowLayer{{OffsetX: 3, OffsetY: 3, Color: glowColor}}, rings...)

	case config.EffectOutline:
		d.Shadow = append(strokes(glowColor), rings...)

	case config.EffectSparkle:
		d.Animation = &Animation{
			Name:   AnimSparkle,
			Period: 2000 * time.Millisecond,
			Keyframes: []Keyframe{
				{At: 0, Shadow: rings},
				{At: 0.25, Shadow: []ShadowLayer{
					{OffsetX: 2, OffsetY: -2, Blur: intensity, Color: glowColor},
					{Blur: spread, Color: glowColor},
				}},
				{At: 0.5, Shadow: []ShadowLayer{
					{Blur: 2 * intensity, Color: glowColor},
					{Blur: spread, Color: glowColor},
				}},
				{At: 0.75, Shadow: []ShadowLayer{
					{OffsetX: -2, OffsetY: 2, Blur: intensity, Color: glowColor},
					{Blur: spread, Color: glowColor},
				}},
				{At: 1, Shadow: rings},
			},
		}

	case config.EffectGradientAnimation:
		d.Shadow = []ShadowLayer{{Blur: intensity, Color: glowColor}}
		d.Animation = &Animation{
			Name:   AnimGradientShift,
			Period: 3000 * time.Millisecond,
			Keyframes: []Keyframe{
				{At: 0, GradientStops: []string{glowColor, color, glowColor}, BackgroundPosition: 0},
				{At: 0.5, GradientStops: []string{glowColor, color, glowColor}, BackgroundPosition: 100},
				{At: 1, GradientStops: []string{glowColor, color, glowColor}, BackgroundPosition: 0},
			},
		}

	case config.EffectNewYear:
		kf := make([]Keyframe, 0, 5)
		for i, c := range newYearColors {
			kf = append(kf, Keyframe{
				At: float64(i) * 0.25,
				Shadow: []ShadowLayer{
					{Blur: intensity, Color: c},
					{Blur: spread, Color: c},
				},
				HueRotateDeg: i * 90,
			})
		}
		kf = append(kf, Keyframe{
			At:     1,
			Shadow: kf[0].Shadow,
		})
		d.Animation = &Animation{
			Name:      AnimNewYear,
			Period:    3000 * time.Millisecond,
			Keyframes: kf,
		}

	default: // neon, and the fallback for anything unknown
		d.Animation = &Animation{
			Name:   AnimNeonPulse,
			Period: 1600 * time.Millisecond,
			Keyframes: []Keyframe{
				{At: 0, Shadow: []ShadowLayer{{Blur: intensity, Color: glowColor}}},
				{At: 0.5, Shadow: []ShadowLayer{{Blur: 2 * intensity, Color: glowColor}}},
				{At: 1, Shadow: []ShadowLayer{{Blur: intensity, Color: glowColor}}},
			},
		}
	}

	return d
}

// resolveFill picks the text color source. The animated gradient supplies its
// own color, so that combination renders the text itself transparent.
func resolveFill(s config.TitleSettings, effect, color string) Fill {
	if effect == config.EffectGradientAnimation && s.GlowEnabled {
		return Fill{Kind: FillTransparent}
	}
	if s.UseGradient {
		return Fill{
			Kind:          FillGradient,
			GradientStart: defaultIfEmpty(s.GradientStart, config.DefaultTitleColor),
			GradientEnd:   defaultIfEmpty(s.GradientEnd, config.DefaultTitleColor),
		}
	}
	return Fill{Kind: FillFlat, Color: color}
}

// strokes builds the four-directional 1px outline.
func strokes(color string) []ShadowLayer {
	return []ShadowLayer{
		{OffsetX: -1, Color: color},
		{OffsetX: 1, Color: color},
		{OffsetY: -1, Color: color},
		{OffsetY: 1, Color: color},
	}
}

func defaultIfEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// clamp substitutes def when v is outside [min, max]. Zero means unset.
func clamp(v, min, max, def int) int {
	if v < min || v > max {
		return def
	}
	return v
}
