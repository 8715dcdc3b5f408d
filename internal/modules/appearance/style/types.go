// Package style maps title settings to a renderable descriptor. Resolution is
// a pure function: identical settings always produce an identical descriptor,
// so independent presentation surfaces stay visually consistent without
// sharing render state.
package style

import "time"

// FillKind selects how the title text is colored.
type FillKind string

const (
	FillFlat        FillKind = "flat"
	FillGradient    FillKind = "gradient"
	FillTransparent FillKind = "transparent"
)

// Fill describes the base text color.
type Fill struct {
	Kind          FillKind `json:"kind"`
	Color         string   `json:"color,omitempty"`
	GradientStart string   `json:"gradientStart,omitempty"`
	GradientEnd   string   `json:"gradientEnd,omitempty"`
}

// ShadowLayer is one entry of a layered shadow formula. Blur 0 with a
// non-zero offset is a hard stroke; offset 0 with blur is a glow ring.
type ShadowLayer struct {
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
	Blur    int    `json:"blur"`
	Color   string `json:"color"`
}

// Keyframe is one phase of a cyclic animation.
type Keyframe struct {
	At                 float64       `json:"at"` // 0..1 position within the cycle
	Shadow             []ShadowLayer `json:"shadow,omitempty"`
	GradientStops      []string      `json:"gradientStops,omitempty"`
	BackgroundPosition float64       `json:"backgroundPosition"` // percent
	HueRotateDeg       int           `json:"hueRotateDeg"`
}

// Animation is a looping effect applied on top of the static shadow.
type Animation struct {
	Name      string        `json:"name"`
	Period    time.Duration `json:"period"`
	Keyframes []Keyframe    `json:"keyframes"`
}

// Descriptor is the resolver output: everything a surface needs to draw the
// title, decoupled from any particular rendering technology.
type Descriptor struct {
	Fill      Fill          `json:"fill"`
	Shadow    []ShadowLayer `json:"shadow,omitempty"`
	Animation *Animation    `json:"animation,omitempty"`
}

// Animation names produced by Resolve.
const (
	AnimNeonPulse     = "neon-pulse"
	AnimSparkle       = "sparkle"
	AnimGradientShift = "gradient-shift"
	AnimNewYear       = "new-year"
)
