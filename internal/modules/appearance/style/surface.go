package style

import (
	"math/rand"
	"strings"
	"time"

	"github.com/issa-plus/core/internal/config"
)

// SnowParticle is one falling glyph. Positions are percentages of the
// container width/height so surfaces of any size can place them.
type SnowParticle struct {
	X            float64       `json:"x"`            // 0-100, starting horizontal position
	Drift        float64       `json:"drift"`        // -20..20, horizontal drift over one fall
	FallDistance float64       `json:"fallDistance"` // 80-120, percent of container height
	Delay        time.Duration `json:"delay"`
	Duration     time.Duration `json:"duration"`
	Glyph        string        `json:"glyph"`
}

var snowGlyphs = []string{"❄", "❅", "❆", "✻"}

// SnowParticles generates n randomized particles. The same seed always yields
// the same set, which keeps renders reproducible and tests deterministic.
func SnowParticles(n int, seed int64) []SnowParticle {
	rng := rand.New(rand.NewSource(seed))
	out := make([]SnowParticle, n)
	for i := range out {
		out[i] = SnowParticle{
			X:            rng.Float64() * 100,
			Drift:        rng.Float64()*40 - 20,
			FallDistance: 80 + rng.Float64()*40,
			Delay:        time.Duration(rng.Float64() * float64(5*time.Second)),
			Duration:     time.Duration(float64(6*time.Second) + rng.Float64()*float64(6*time.Second)),
			Glyph:        snowGlyphs[rng.Intn(len(snowGlyphs))],
		}
	}
	return out
}

// MascotPlacement positions the optional seasonal mascot image.
type MascotPlacement struct {
	Image   string `json:"image"`
	Anchor  string `json:"anchor"` // relative | absolute
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
	Scale   int    `json:"scale"` // percent
}

// AvatarPlacement positions the optional avatar, or its placeholder glyph
// when no image is set.
type AvatarPlacement struct {
	Image       string `json:"image,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	OffsetX     int    `json:"offsetX"`
	OffsetY     int    `json:"offsetY"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Surface is the full presentation plan for one render: the resolved text
// style plus every decorative element's placement.
type Surface struct {
	Style     Descriptor       `json:"style"`
	Snow      bool             `json:"snow"`
	Particles []SnowParticle   `json:"particles,omitempty"`
	Mascot    *MascotPlacement `json:"mascot,omitempty"`
	Avatar    *AvatarPlacement `json:"avatar,omitempty"`
}

// DefaultParticleCount is used when the caller does not pick a count.
const DefaultParticleCount = 40

// Compose builds the presentation plan for the given settings at a point in
// time. ownerName feeds the avatar placeholder when no image is set; seed
// fixes the particle layout.
func Compose(s config.TitleSettings, now time.Time, ownerName string, seed int64) Surface {
	surf := Surface{
		Style: Resolve(s),
		Snow:  SnowActive(s, now),
	}
	if surf.Snow {
		surf.Particles = SnowParticles(DefaultParticleCount, seed)
	}

	if s.SnowmanEnabled && s.SnowmanImage != "" {
		anchor := s.SnowmanPositionType
		if anchor != config.PositionAbsolute {
			anchor = config.PositionRelative
		}
		surf.Mascot = &MascotPlacement{
			Image:   s.SnowmanImage,
			Anchor:  anchor,
			OffsetX: s.SnowmanPositionX,
			OffsetY: s.SnowmanPositionY,
			Scale:   clamp(s.SnowmanScale, 50, 200, config.DefaultSnowmanScale),
		}
	}

	avatar := AvatarPlacement{
		OffsetX: s.AvatarPositionX,
		OffsetY: s.AvatarPositionY,
		Width:   clamp(s.AvatarWidth, 40, 200, config.DefaultAvatarSize),
		Height:  clamp(s.AvatarHeight, 40, 200, config.DefaultAvatarSize),
	}
	if s.AvatarImage != "" {
		avatar.Image = s.AvatarImage
		surf.Avatar = &avatar
	} else if glyph := firstGlyph(ownerName); glyph != "" {
		avatar.Placeholder = glyph
		surf.Avatar = &avatar
	}

	return surf
}

func firstGlyph(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r := []rune(name)
	return strings.ToUpper(string(r[0]))
}
