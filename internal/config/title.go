package config

// Effect types selectable for the application title. Unknown values fall back
// to EffectNeon at resolve time.
const (
	EffectNeon              = "neon"
	EffectShadow            = "shadow"
	EffectOutline           = "outline"
	EffectSparkle           = "sparkle"
	EffectGradientAnimation = "gradient-animation"
	EffectNewYear           = "new-year"
)

// Mascot anchoring modes.
const (
	PositionRelative = "relative" // relative to the title text block
	PositionAbsolute = "absolute" // relative to the whole container
)

// TitleSettings is the persisted record controlling the application-title
// appearance and its decorations. Images are embedded as data URIs so the
// whole record round-trips through the key-value store as one blob.
type TitleSettings struct {
	Text           string `json:"text"`
	FontSize       string `json:"fontSize"`
	FontFamily     string `json:"fontFamily"`
	CustomFontURL  string `json:"customFontUrl"`
	CustomFontName string `json:"customFontName"`

	Color         string `json:"color"`
	UseGradient   bool   `json:"useGradient"`
	GradientStart string `json:"gradientStart"`
	GradientEnd   string `json:"gradientEnd"`

	GlowEnabled   bool   `json:"glowEnabled"`
	GlowColor     string `json:"glowColor"`
	GlowIntensity int    `json:"glowIntensity"` // 1-50
	GlowSpread    int    `json:"glowSpread"`    // 1-100

	EffectType string `json:"effectType"`

	// SnowEnabled is tri-state: true = always, false = never,
	// nil = seasonal automatic (December through February).
	SnowEnabled *bool `json:"snowEnabled"`

	SnowmanEnabled      bool   `json:"snowmanEnabled"`
	SnowmanImage        string `json:"snowmanImage"` // data URI, empty = none
	SnowmanPositionX    int    `json:"snowmanPositionX"`
	SnowmanPositionY    int    `json:"snowmanPositionY"`
	SnowmanScale        int    `json:"snowmanScale"` // percent, 50-200
	SnowmanPositionType string `json:"snowmanPositionType"`

	AvatarImage     string `json:"avatarImage"` // data URI, empty = none
	AvatarPositionX int    `json:"avatarPositionX"`
	AvatarPositionY int    `json:"avatarPositionY"`
	AvatarWidth     int    `json:"avatarWidth"`  // 40-200
	AvatarHeight    int    `json:"avatarHeight"` // 40-200
}

// Documented defaults. The resolver substitutes these for missing or
// out-of-range values, so a partially persisted record never breaks rendering.
const (
	DefaultTitleText     = "Issa Plus"
	DefaultFontSize      = "2em"
	DefaultTitleColor    = "#43e97b"
	DefaultGlowColor     = "#43e97b"
	DefaultGlowIntensity = 12
	DefaultGlowSpread    = 32
	DefaultAvatarSize    = 88
	DefaultSnowmanScale  = 100
)

// DefaultTitleSettings returns the complete default record. Every field has a
// value here; loading merges persisted data over this, never the reverse.
func DefaultTitleSettings() TitleSettings {
	return TitleSettings{
		Text:                DefaultTitleText,
		FontSize:            DefaultFontSize,
		FontFamily:          "inherit",
		Color:               DefaultTitleColor,
		GradientStart:       "#43e97b",
		GradientEnd:         "#38f9d7",
		GlowEnabled:         true,
		GlowColor:           DefaultGlowColor,
		GlowIntensity:       DefaultGlowIntensity,
		GlowSpread:          DefaultGlowSpread,
		EffectType:          EffectNeon,
		SnowEnabled:         nil,
		SnowmanScale:        DefaultSnowmanScale,
		SnowmanPositionType: PositionRelative,
		AvatarWidth:         DefaultAvatarSize,
		AvatarHeight:        DefaultAvatarSize,
	}
}

// ValidEffectType reports whether s is one of the six known effect types.
func ValidEffectType(s string) bool {
	switch s {
	case EffectNeon, EffectShadow, EffectOutline, EffectSparkle,
		EffectGradientAnimation, EffectNewYear:
		return true
	}
	return false
}
