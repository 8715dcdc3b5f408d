package uploads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFileNameKeepsExtension(t *testing.T) {
	name := BuildFileName("party-parrot.PNG")
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Len(t, name, 18+len(".png"))

	// No or absurd extension falls back to .dat.
	assert.True(t, strings.HasSuffix(BuildFileName("noext"), ".dat"))
	assert.True(t, strings.HasSuffix(BuildFileName("x.veryverylongext"), ".dat"))
}

func TestBuildFileNameAvoidsCollisions(t *testing.T) {
	a := BuildFileName("a.png")
	b := BuildFileName("a.png")
	assert.NotEqual(t, a, b)
}

func TestKeyFromURL(t *testing.T) {
	cases := map[string]string{
		"/static/emoji/abc123.png":                          "emoji/abc123.png",
		"https://cdn.example.com/emoji/abc123.png":          "emoji/abc123.png",
		"https://bucket.s3.amazonaws.com/docs/report.pdf":   "docs/report.pdf",
		"":                                                  "",
		"/static/../../etc/passwd":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, KeyFromURL(in), in)
	}
}

func TestLocalSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(nil, dir)
	ctx := context.Background()

	url, storage, err := s.Save(ctx, "emoji", "smile.png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, StorageLocal, storage)
	assert.True(t, strings.HasPrefix(url, "/static/emoji/"))

	key := KeyFromURL(url)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, storage, url))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// Deleting again stays quiet.
	assert.NoError(t, s.Delete(ctx, storage, url))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", DetectContentType("a.png", nil))
	assert.Equal(t, "application/octet-stream", DetectContentType("", nil))
}
