// Package imaging normalizes uploaded images before they are stored inside
// appearance settings: bounded dimensions, bounded encoded size, alpha kept
// only when the source actually uses it.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// DefaultMaxWidth and DefaultMaxHeight bound the normalized image.
	DefaultMaxWidth  = 300
	DefaultMaxHeight = 300

	// DefaultQuality is the lossy re-encode quality on a 0..1 scale.
	DefaultQuality = 0.75

	// alphaSampleEdge is the side of the pixel block probed for transparency.
	alphaSampleEdge = 50
)

// Options tune a Normalize call. Zero values fall back to the defaults above.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   float64
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = DefaultQuality
	}
	return o
}

// Result is a normalized image ready for embedding.
type Result struct {
	Data        []byte
	ContentType string // "image/png" or "image/jpeg"
	Width       int
	Height      int
}

// DataURI renders the result as a data URI suitable for storage in settings.
func (r Result) DataURI() string {
	return "data:" + r.ContentType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Normalize decodes raw image bytes, scales them down to fit the bounds
// (never up), and re-encodes. Transparent sources keep PNG so alpha
// survives; opaque sources are composited onto white and re-encoded as JPEG
// at the configured quality.
func Normalize(data []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)

	var scaled image.Image = src
	if w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		scaled = dst
	}

	if hasTransparency(src, format) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, scaled); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return &Result{Data: buf.Bytes(), ContentType: "image/png", Width: w, Height: h}, nil
	}

	// Composite onto white before the lossy encode so any stray transparent
	// pixels do not turn black.
	flat := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), scaled, scaled.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: int(opts.Quality * 100)}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &Result{Data: buf.Bytes(), ContentType: "image/jpeg", Width: w, Height: h}, nil
}

// NormalizeDataURI accepts a data URI, normalizes the payload, and returns a
// new data URI. Non-image or malformed input is rejected.
func NormalizeDataURI(uri string, opts Options) (string, error) {
	data, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}
	res, err := Normalize(data, opts)
	if err != nil {
		return "", err
	}
	return res.DataURI(), nil
}

// DecodeDataURI extracts the raw bytes from a base64 data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("not a data uri")
	}
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data uri")
	}
	meta, payload := uri[5:idx], uri[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data uri encoding")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	return data, nil
}

// fitWithin returns dimensions scaled to fit maxW×maxH with the aspect ratio
// preserved. Images already inside the bounds are returned unchanged.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < r {
		r = rh
	}
	nw := int(math.Round(float64(w) * r))
	nh := int(math.Round(float64(h) * r))
	if nw > maxW {
		nw = maxW
	}
	if nh > maxH {
		nh = maxH
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// hasTransparency reports whether the image should keep an alpha channel.
// PNG sources are assumed transparent; other formats get a bounded sample of
// the top-left block, which is cheap and catches the common cases (logos,
// stickers with a transparent margin).
func hasTransparency(img image.Image, format string) bool {
	if format == "png" {
		return true
	}
	bounds := img.Bounds()
	maxX := bounds.Min.X + alphaSampleEdge
	if maxX > bounds.Max.X {
		maxX = bounds.Max.X
	}
	maxY := bounds.Min.Y + alphaSampleEdge
	if maxY > bounds.Max.Y {
		maxY = bounds.Max.Y
	}
	for y := bounds.Min.Y; y < maxY; y++ {
		for x := bounds.Min.X; x < maxX; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}
