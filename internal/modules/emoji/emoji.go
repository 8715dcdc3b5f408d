// Package emoji manages custom uploaded emoji and the blacklist hiding
// built-in ones. Custom emoji are identified by the (name, src) pair because
// names are not unique across locally embedded and server-persisted entries.
package emoji

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/pkg/kv"
	"github.com/issa-plus/core/internal/pkg/uploads"
	"gorm.io/gorm"
)

// BlacklistKey is the standard-emoji blacklist blob in the durable store.
// Entries are opaque "std|<emoji-char>" keys.
const BlacklistKey = "emoji:blacklist"

// StdKeyPrefix marks blacklist entries referring to built-in emoji.
const StdKeyPrefix = "std|"

type Service struct {
	db    *gorm.DB
	store kv.Store
	saver *uploads.Saver

	mu sync.Mutex // serializes blacklist read-modify-write
}

func NewService(db *gorm.DB, store kv.Store, saver *uploads.Saver) *Service {
	return &Service{db: db, store: store, saver: saver}
}

// List returns all custom emoji, newest first.
func (s *Service) List(ctx context.Context) ([]models.CustomEmojiModel, error) {
	var items []models.CustomEmojiModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

// Upload stores the image and registers the emoji under the given name.
func (s *Service) Upload(ctx context.Context, name, originalName string, data []byte, uploadedBy string) (*models.CustomEmojiModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("emoji name is required")
	}

	src, storage, err := s.saver.Save(ctx, "emoji", originalName, data)
	if err != nil {
		return nil, err
	}

	item := models.CustomEmojiModel{
		Name:       name,
		Src:        src,
		Storage:    storage,
		UploadedBy: uploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes one emoji by its (name, src) pair. Server-backed files are
// also removed from storage, best effort.
func (s *Service) Delete(ctx context.Context, name, src string) error {
	var item models.CustomEmojiModel
	err := s.db.WithContext(ctx).Where("name = ? AND src = ?", name, src).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
		return err
	}
	if !strings.HasPrefix(item.Src, "data:") {
		_ = s.saver.Delete(ctx, item.Storage, item.Src)
	}
	return nil
}

// DeleteAll removes every custom emoji, cleaning up stored files best effort.
func (s *Service) DeleteAll(ctx context.Context) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.CustomEmojiModel{}).Error; err != nil {
		return err
	}
	for _, item := range items {
		if !strings.HasPrefix(item.Src, "data:") {
			_ = s.saver.Delete(ctx, item.Storage, item.Src)
		}
	}
	return nil
}

// Blacklist returns the hidden built-in emoji keys.
func (s *Service) Blacklist(ctx context.Context) ([]string, error) {
	return s.loadBlacklist(ctx)
}

// Hide adds a built-in emoji key to the blacklist. Already hidden is a no-op.
func (s *Service) Hide(ctx context.Context, key string) error {
	return s.mutateBlacklist(ctx, key, true)
}

// Unhide removes a key from the blacklist. Not hidden is a no-op.
func (s *Service) Unhide(ctx context.Context, key string) error {
	return s.mutateBlacklist(ctx, key, false)
}

func (s *Service) mutateBlacklist(ctx context.Context, key string, add bool) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("emoji key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.loadBlacklist(ctx)
	if err != nil {
		return err
	}

	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	if add {
		set[key] = struct{}{}
	} else {
		delete(set, key)
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, BlacklistKey, string(data))
}

func (s *Service) loadBlacklist(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, BlacklistKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return []string{}, nil
	}
	return keys, nil
}
