package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Compressor shrinks uploaded photos before they reach the bucket.
type Compressor struct {
	TargetBytes    int
	MaxDimension   int
	MaxPasses      int
	InitialQuality int
	MinQuality     int
}

// CompressResult is the smallest encoding produced.
type CompressResult struct {
	Data     []byte
	Filename string
	Passes   int
}

func DefaultCompressor() Compressor {
	return Compressor{
		TargetBytes:    500 << 10,
		MaxDimension:   1600,
		MaxPasses:      6,
		InitialQuality: 85,
		MinQuality:     40,
	}
}

// Compress re-encodes data as JPEG, downscaling and lowering quality on each
// pass while the output is over TargetBytes. It stops after MaxPasses or as
// soon as a pass fails to shrink the output. GIFs and images already under
// target are returned unchanged.
func (c Compressor) Compress(data []byte, filename string) (CompressResult, error) {
	original := CompressResult{Data: data, Filename: filename}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".gif" {
		return original, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return original, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if len(data) <= c.TargetBytes && longestSide(cfg.Width, cfg.Height) <= c.MaxDimension {
		return original, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return original, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img := fit(flatten(src), c.MaxDimension)
	quality := c.InitialQuality
	best := original
	for pass := 1; pass <= c.MaxPasses; pass++ {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return original, fmt.Errorf("encode jpeg: %w", err)
		}
		if best.Passes > 0 && buf.Len() >= len(best.Data) {
			break
		}
		best = CompressResult{
			Data:     buf.Bytes(),
			Filename: strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg",
			Passes:   pass,
		}
		if buf.Len() <= c.TargetBytes {
			break
		}

		if quality-10 >= c.MinQuality {
			quality -= 10
		}
		b := img.Bounds()
		img = fit(img, longestSide(b.Dx(), b.Dy())*85/100)
	}

	if len(best.Data) >= len(data) && longestSide(cfg.Width, cfg.Height) <= c.MaxDimension {
		return original, nil
	}
	return best, nil
}

func longestSide(w, h int) int {
	if w > h {
		return w
	}
	return h
}

// flatten composites src onto white, since JPEG has no alpha channel.
func flatten(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, b, src, b.Min, draw.Over)
	return dst
}

// fit scales src down so its longest side is at most max.
func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	long := longestSide(w, h)
	if max <= 0 || long <= max {
		return src
	}
	nw, nh := w*max/long, h*max/long
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
