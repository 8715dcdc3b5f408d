// Package settings owns the persisted title-settings blob: load with
// defaults-merge, save with lossy degrade on overflow, and change broadcast
// to every surface that renders the title.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/pkg/imaging"
	"github.com/issa-plus/core/internal/pkg/kv"
	"go.uber.org/zap"
)

// SettingsKey is the blob's key in the durable store.
const SettingsKey = "title:settings"

// MaxBlobSize bounds the serialized settings. Crossing it triggers the
// degrade path, not a hard failure.
const MaxBlobSize = 4 * 1024 * 1024

// SaveResult reports what actually got persisted. A save can succeed while
// still degrading: images stripped for size, or an individual image that
// failed to process left at its previous value.
type SaveResult struct {
	Settings       config.TitleSettings `json:"settings"`
	ImagesStripped bool                 `json:"imagesStripped"`
	FailedImages   []string             `json:"failedImages,omitempty"`
}

// Service persists and broadcasts title settings.
type Service struct {
	store kv.Store
	bus   *kv.Bus
	log   *zap.Logger

	mu     sync.RWMutex
	cached *config.TitleSettings
}

func NewService(store kv.Store, bus *kv.Bus, log *zap.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Bus exposes the change bus so surfaces can resubscribe instead of polling.
func (s *Service) Bus() *kv.Bus { return s.bus }

// Load returns the persisted settings merged field-by-field over the
// defaults. Absence or a parse failure yields the default record, never an
// error: rendering must always have a complete object to work with.
func (s *Service) Load(ctx context.Context) config.TitleSettings {
	s.mu.RLock()
	if s.cached != nil {
		out := *s.cached
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	loaded := s.loadFromStore(ctx)

	s.mu.Lock()
	s.cached = &loaded
	s.mu.Unlock()
	return loaded
}

func (s *Service) loadFromStore(ctx context.Context) config.TitleSettings {
	out := config.DefaultTitleSettings()

	raw, err := s.store.Get(ctx, SettingsKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("title settings unreadable, using defaults", zap.Error(err))
		}
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.log.Warn("title settings corrupt, using defaults", zap.Error(err))
		return config.DefaultTitleSettings()
	}
	return out
}

// Save normalizes embedded images, persists the blob, and broadcasts the
// result. Oversize payloads are degraded by dropping both image fields
// before persisting; that is reported, not treated as failure. Last writer
// wins, there is no cross-save ordering.
func (s *Service) Save(ctx context.Context, in config.TitleSettings) (SaveResult, error) {
	res := SaveResult{Settings: in}

	prev := s.Load(ctx)
	s.normalizeImage(&res.Settings.AvatarImage, prev.AvatarImage, "avatarImage", &res)
	s.normalizeImage(&res.Settings.SnowmanImage, prev.SnowmanImage, "snowmanImage", &res)

	data, err := json.Marshal(res.Settings)
	if err != nil {
		return res, err
	}

	if len(data) > MaxBlobSize {
		res.strip()
		if data, err = json.Marshal(res.Settings); err != nil {
			return res, err
		}
	}

	if err := s.store.Set(ctx, SettingsKey, string(data)); err != nil {
		if !errors.Is(err, kv.ErrTooLarge) || res.ImagesStripped {
			return res, err
		}
		// The store's own quota tripped first; degrade and retry once.
		res.strip()
		if data, err = json.Marshal(res.Settings); err != nil {
			return res, err
		}
		if err := s.store.Set(ctx, SettingsKey, string(data)); err != nil {
			return res, err
		}
	}

	if res.ImagesStripped {
		s.log.Warn("title settings exceeded size cap, images dropped")
	}

	s.mu.Lock()
	saved := res.Settings
	s.cached = &saved
	s.mu.Unlock()

	s.bus.Publish(kv.Change{Key: SettingsKey, Value: string(data)})
	return res, nil
}

// Reset deletes the persisted blob and broadcasts the defaults.
func (s *Service) Reset(ctx context.Context) (config.TitleSettings, error) {
	if err := s.store.Delete(ctx, SettingsKey); err != nil {
		return config.TitleSettings{}, err
	}

	def := config.DefaultTitleSettings()
	s.mu.Lock()
	s.cached = &def
	s.mu.Unlock()

	data, _ := json.Marshal(def)
	s.bus.Publish(kv.Change{Key: SettingsKey, Value: string(data)})
	return def, nil
}

// normalizeImage compresses one embedded data URI in place. A broken image
// falls back to the previously persisted value so one bad upload does not
// block the rest of the save.
func (s *Service) normalizeImage(field *string, prev, name string, res *SaveResult) {
	v := strings.TrimSpace(*field)
	if v == "" || !strings.HasPrefix(v, "data:") {
		return
	}
	out, err := imaging.NormalizeDataURI(v, imaging.Options{})
	if err != nil {
		s.log.Warn("image normalization failed", zap.String("field", name), zap.Error(err))
		*field = prev
		res.FailedImages = append(res.FailedImages, name)
		return
	}
	*field = out
}

func (r *SaveResult) strip() {
	r.Settings.AvatarImage = ""
	r.Settings.SnowmanImage = ""
	r.ImagesStripped = true
}
