package kv

import (
	"context"
	"errors"

	"github.com/issa-plus/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultMaxValueSize caps a single value at 4 MiB, mirroring the quota
// browsers enforce on extension storage. Callers that exceed it are expected
// to degrade their payload and retry.
const DefaultMaxValueSize = 4 * 1024 * 1024

// GormStore persists values in the options table.
type GormStore struct {
	db      *gorm.DB
	maxSize int
}

// NewGormStore creates a store over the given database. maxSize <= 0 applies
// DefaultMaxValueSize.
func NewGormStore(db *gorm.DB, maxSize int) *GormStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxValueSize
	}
	return &GormStore{db: db, maxSize: maxSize}
}

func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var row models.OptionModel
	err := s.db.WithContext(ctx).Where("name = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	if len(value) > s.maxSize {
		return ErrTooLarge
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.OptionModel{Name: key, Value: value}).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("name = ?", key).Delete(&models.OptionModel{}).Error
}
