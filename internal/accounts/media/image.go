// Package media normalises uploaded avatars and stores them.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrTooLarge          = errors.New("media: image too large")
	ErrUnsupportedFormat = errors.New("media: unsupported image format")
)

const ContentTypePNG = "image/png"

// maxPixels bounds the decoded size, whatever the header claims.
const maxPixels = 40_000_000

type Processor struct {
	MaxBytes     int64
	MaxDimension int
}

// Normalize decodes a JPEG, PNG, GIF or WebP image, scales it to fit within
// MaxDimension on both sides and re-encodes it as PNG. Metadata does not
// survive the round trip.
func (p Processor) Normalize(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read: %w", err)
	}
	if int64(len(data)) > p.MaxBytes {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	out := p.fit(src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("media: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (p Processor) fit(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if p.MaxDimension <= 0 || (w <= p.MaxDimension && h <= p.MaxDimension) {
		return src
	}

	nw, nh := p.MaxDimension, p.MaxDimension
	if w >= h {
		nh = max(1, h*p.MaxDimension/w)
	} else {
		nw = max(1, w*p.MaxDimension/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
