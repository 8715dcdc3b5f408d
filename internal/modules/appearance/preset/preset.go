// Package preset manages named, reusable subsets of the title style. Presets
// capture appearance only (text, font, colors, glow, effect) and never touch
// layout or images, so applying one leaves the rest of a draft intact.
package preset

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/pkg/kv"
)

// PresetsKey is the registry blob's key in the durable store.
const PresetsKey = "title:presets"

// ErrInvalid is returned when a preset is missing its id or name.
var ErrInvalid = errors.New("preset: id and name are required")

// Style is the field subset a preset may carry. Pointer fields: nil means
// "not captured", and Apply leaves the draft's value alone for those.
type Style struct {
	Text           *string `json:"text,omitempty"`
	FontSize       *string `json:"fontSize,omitempty"`
	FontFamily     *string `json:"fontFamily,omitempty"`
	CustomFontURL  *string `json:"customFontUrl,omitempty"`
	CustomFontName *string `json:"customFontName,omitempty"`
	Color          *string `json:"color,omitempty"`
	UseGradient    *bool   `json:"useGradient,omitempty"`
	GradientStart  *string `json:"gradientStart,omitempty"`
	GradientEnd    *string `json:"gradientEnd,omitempty"`
	GlowEnabled    *bool   `json:"glowEnabled,omitempty"`
	GlowColor      *string `json:"glowColor,omitempty"`
	GlowIntensity  *int    `json:"glowIntensity,omitempty"`
	GlowSpread     *int    `json:"glowSpread,omitempty"`
	EffectType     *string `json:"effectType,omitempty"`
}

// Capture extracts the preset-able subset from full settings.
func Capture(s config.TitleSettings) Style {
	return Style{
		Text:           &s.Text,
		FontSize:       &s.FontSize,
		FontFamily:     &s.FontFamily,
		CustomFontURL:  &s.CustomFontURL,
		CustomFontName: &s.CustomFontName,
		Color:          &s.Color,
		UseGradient:    &s.UseGradient,
		GradientStart:  &s.GradientStart,
		GradientEnd:    &s.GradientEnd,
		GlowEnabled:    &s.GlowEnabled,
		GlowColor:      &s.GlowColor,
		GlowIntensity:  &s.GlowIntensity,
		GlowSpread:     &s.GlowSpread,
		EffectType:     &s.EffectType,
	}
}

// Preset is one saved style under a caller-assigned id.
type Preset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Settings  Style     `json:"settings"`
	CreatedAt time.Time `json:"createdAt"`
}

// Apply merges the preset's captured fields over a draft. Fields the preset
// does not define, and everything outside the style subset (layout, images),
// keep the draft's values.
func (p Preset) Apply(draft config.TitleSettings) config.TitleSettings {
	st := p.Settings
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&draft.Text, st.Text)
	setStr(&draft.FontSize, st.FontSize)
	setStr(&draft.FontFamily, st.FontFamily)
	setStr(&draft.CustomFontURL, st.CustomFontURL)
	setStr(&draft.CustomFontName, st.CustomFontName)
	setStr(&draft.Color, st.Color)
	setStr(&draft.GradientStart, st.GradientStart)
	setStr(&draft.GradientEnd, st.GradientEnd)
	setStr(&draft.GlowColor, st.GlowColor)
	setStr(&draft.EffectType, st.EffectType)
	if st.UseGradient != nil {
		draft.UseGradient = *st.UseGradient
	}
	if st.GlowEnabled != nil {
		draft.GlowEnabled = *st.GlowEnabled
	}
	if st.GlowIntensity != nil {
		draft.GlowIntensity = *st.GlowIntensity
	}
	if st.GlowSpread != nil {
		draft.GlowSpread = *st.GlowSpread
	}
	return draft
}

// Service stores the whole registry as one id-keyed blob, independent from
// the settings blob.
type Service struct {
	store kv.Store

	mu sync.Mutex
}

func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// List returns all presets, newest first.
func (s *Service) List(ctx context.Context) ([]Preset, error) {
	m, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Preset, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns one preset, or (nil, nil) when the id is unknown.
func (s *Service) Get(ctx context.Context, id string) (*Preset, error) {
	m, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Save upserts by id. Ids are caller-assigned, so saving an existing id
// replaces that preset in place.
func (s *Service) Save(ctx context.Context, p Preset) (Preset, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	if p.ID == "" || p.Name == "" {
		return Preset{}, ErrInvalid
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadAll(ctx)
	if err != nil {
		return Preset{}, err
	}
	if existing, ok := m[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	m[p.ID] = p
	return p, s.persist(ctx, m)
}

// Delete removes by id. Unknown ids are a no-op, not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadAll(ctx)
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return nil
	}
	delete(m, id)
	return s.persist(ctx, m)
}

func (s *Service) loadAll(ctx context.Context) (map[string]Preset, error) {
	raw, err := s.store.Get(ctx, PresetsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return map[string]Preset{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]Preset{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		// A corrupt registry starts over rather than wedging preset saves.
		return map[string]Preset{}, nil
	}
	return m, nil
}

func (s *Service) persist(ctx context.Context, m map[string]Preset) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, PresetsKey, string(data))
}
