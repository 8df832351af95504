package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressShrinksLargeImage(t *testing.T) {
	data := noisyPNG(t, 600, 400)
	c := Compressor{TargetBytes: 40 << 10, MaxDimension: 500, MaxPasses: 5, InitialQuality: 85, MinQuality: 40}

	res, err := c.Compress(data, "photo.png")
	require.NoError(t, err)
	assert.Less(t, len(res.Data), len(data))
	assert.Equal(t, "photo.jpg", res.Filename)
	assert.GreaterOrEqual(t, res.Passes, 1)
	assert.LessOrEqual(t, res.Passes, 5)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 500)
}

func TestCompressRespectsPassCap(t *testing.T) {
	data := noisyPNG(t, 300, 300)
	c := Compressor{TargetBytes: 1, MaxDimension: 1000, MaxPasses: 2, InitialQuality: 90, MinQuality: 10}

	res, err := c.Compress(data, "photo.png")
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Passes, 2)
}

func TestCompressLeavesSmallImageAlone(t *testing.T) {
	data := noisyPNG(t, 8, 8)
	res, err := DefaultCompressor().Compress(data, "icon.png")
	require.NoError(t, err)
	assert.Equal(t, data, res.Data)
	assert.Equal(t, "icon.png", res.Filename)
	assert.Zero(t, res.Passes)
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := DefaultCompressor().Compress([]byte("not an image"), "x.jpg")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestCompressSkipsGIF(t *testing.T) {
	res, err := DefaultCompressor().Compress([]byte("GIF89a..."), "anim.gif")
	require.NoError(t, err)
	assert.Equal(t, "anim.gif", res.Filename)
}

func TestCompressFlattensTransparencyOntoWhite(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	img := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 0})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	c := Compressor{TargetBytes: 4 << 10, MaxDimension: 200, MaxPasses: 3, InitialQuality: 85, MinQuality: 40}
	res, err := c.Compress(buf.Bytes(), "logo.png")
	require.NoError(t, err)
	require.Equal(t, "logo.jpg", res.Filename)

	out, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	r, g, b, _ := out.At(out.Bounds().Dx()/2, out.Bounds().Dy()/2).RGBA()
	for _, v := range []uint32{r, g, b} {
		assert.Greater(t, v>>8, uint32(240), "transparent areas become white")
	}
}
