package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 80, B: 120, A: 255})
		}
	}
	return img
}

func TestNormalizeBoundsDimensions(t *testing.T) {
	src := encodeJPEG(t, opaqueImage(900, 600))

	res, err := Normalize(src, Options{})
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Width, DefaultMaxWidth)
	assert.LessOrEqual(t, res.Height, DefaultMaxHeight)
	// Aspect ratio 3:2 preserved.
	assert.Equal(t, 300, res.Width)
	assert.Equal(t, 200, res.Height)
}

func TestNormalizeNeverUpscales(t *testing.T) {
	src := encodeJPEG(t, opaqueImage(120, 80))

	res, err := Normalize(src, Options{})
	require.NoError(t, err)

	assert.Equal(t, 120, res.Width)
	assert.Equal(t, 80, res.Height)
}

func TestNormalizeDimensionsStableOnSecondPass(t *testing.T) {
	src := encodeJPEG(t, opaqueImage(1000, 1000))

	first, err := Normalize(src, Options{})
	require.NoError(t, err)

	second, err := Normalize(first.Data, Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Width, second.Width)
	assert.Equal(t, first.Height, second.Height)
}

func TestNormalizePNGKeepsAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	img.Set(0, 0, color.RGBA{R: 255, A: 128})
	src := encodePNG(t, img)

	res, err := Normalize(src, Options{})
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.ContentType)
	decoded, format, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	_, _, _, a := decoded.At(0, 0).RGBA()
	assert.Less(t, a, uint32(0xffff))
}

func TestNormalizeOpaqueBecomesJPEG(t *testing.T) {
	src := encodeJPEG(t, opaqueImage(400, 400))

	res, err := Normalize(src, Options{Quality: 0.75})
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", res.ContentType)
	_, format, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"), Options{})
	assert.Error(t, err)
}

func TestDataURIRoundTrip(t *testing.T) {
	src := encodeJPEG(t, opaqueImage(500, 500))
	res, err := Normalize(src, Options{})
	require.NoError(t, err)

	uri := res.DataURI()
	assert.Contains(t, uri, "data:image/jpeg;base64,")

	data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, res.Data, data)

	out, err := NormalizeDataURI(uri, Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "data:image/jpeg;base64,")
}

func TestDecodeDataURIMalformed(t *testing.T) {
	for _, uri := range []string{
		"http://example.com/a.png",
		"data:image/pngbase64",
		"data:image/png;base64,!!notbase64!!",
	} {
		_, err := DecodeDataURI(uri)
		assert.Error(t, err, uri)
	}
}
