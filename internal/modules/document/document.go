// Package document handles uploaded files shared in the workspace.
package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/pkg/uploads"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("document not found")

type Service struct {
	db        *gorm.DB
	saver     *uploads.Saver
	staticDir string
	log       *zap.Logger
}

func NewService(db *gorm.DB, saver *uploads.Saver, staticDir string, log *zap.Logger) *Service {
	return &Service{db: db, saver: saver, staticDir: staticDir, log: log}
}

// Upload stores the file and records it.
func (s *Service) Upload(ctx context.Context, name, originalName string, data []byte, uploadedBy string) (*models.DocumentModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = originalName
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("document name is required")
	}

	url, storage, err := s.saver.Save(ctx, "documents", originalName, data)
	if err != nil {
		return nil, err
	}

	doc := models.DocumentModel{
		Name:        name,
		FileName:    filepath.Base(uploads.KeyFromURL(url)),
		URL:         url,
		Size:        int64(len(data)),
		ContentType: uploads.DetectContentType(originalName, data),
		Storage:     storage,
		Status:      "ready",
		UploadedBy:  uploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		_ = s.saver.Delete(ctx, storage, url)
		return nil, err
	}
	return &doc, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete removes the record and the stored file.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Unscoped().Delete(doc).Error; err != nil {
		return err
	}
	if err := s.saver.Delete(ctx, doc.Storage, doc.URL); err != nil {
		s.log.Warn("document file cleanup failed", zap.String("url", doc.URL), zap.Error(err))
	}
	return nil
}

// CleanupOrphans deletes local files in the documents directory that no
// record references anymore. Grace keeps files younger than the window so an
// in-flight upload is never swept between write and insert.
func (s *Service) CleanupOrphans(ctx context.Context, grace time.Duration) (int, error) {
	dir := filepath.Join(s.staticDir, "documents")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var known []string
	if err := s.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("storage = ?", uploads.StorageLocal).
		Pluck("file_name", &known).Error; err != nil {
		return 0, err
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, n := range known {
		knownSet[n] = struct{}{}
	}

	removed := 0
	cutoff := time.Now().Add(-grace)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := knownSet[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			s.log.Warn("orphan removal failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("removed orphaned document files", zap.Int("count", removed))
	}
	return removed, nil
}
