// Package uploads stores user files either in the local static directory or
// in the configured S3 bucket, and deletes them again given only the public
// URL that was handed out.
package uploads

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/issa-plus/core/internal/pkg/s3store"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Saver writes uploads to one configured backend.
type Saver struct {
	s3        *s3store.Client
	staticDir string
}

// NewSaver prefers S3 when a client is configured, local otherwise.
func NewSaver(s3c *s3store.Client, staticDir string) *Saver {
	return &Saver{s3: s3c, staticDir: staticDir}
}

// Save stores data under a collision-resistant name inside the given
// subdirectory and returns the public URL plus the backend used.
func (s *Saver) Save(ctx context.Context, dir, originalName string, data []byte) (string, string, error) {
	name := BuildFileName(originalName)
	key := path.Join(dir, name)

	if s.s3 != nil {
		u, err := s.s3.Upload(ctx, key, data, DetectContentType(originalName, data))
		if err != nil {
			return "", "", err
		}
		return u, StorageS3, nil
	}

	full := filepath.Join(s.staticDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	return "/static/" + key, StorageLocal, nil
}

// Delete removes a stored file given the URL returned by Save. The filename
// and subdirectory are parsed back out of the URL path. Unknown or already
// missing files are not an error.
func (s *Saver) Delete(ctx context.Context, storage, fileURL string) error {
	key := KeyFromURL(fileURL)
	if key == "" {
		return nil
	}

	if storage == StorageS3 && s.s3 != nil {
		return s.s3.Delete(ctx, key)
	}

	full := filepath.Join(s.staticDir, filepath.FromSlash(key))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// KeyFromURL parses the storage key (subdir/filename) out of a public URL.
// Returns "" when no safe key can be extracted.
func KeyFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimPrefix(p, "/static/")
	p = strings.TrimPrefix(p, "/")
	if p == "" || strings.Contains(p, "..") {
		return ""
	}
	return p
}

// BuildFileName generates a collision-resistant filename that preserves the
// original extension.
func BuildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

// DetectContentType sniffs the MIME type from the extension or the payload.
func DetectContentType(filename string, payload []byte) string {
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename))); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}
