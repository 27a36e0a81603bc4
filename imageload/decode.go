package imageload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/lixenwraith/parallax/parameter"
)

// ErrTooLarge rejects payloads over the byte limit and images over the dimension limits
var ErrTooLarge = errors.New("image payload too large")

// Decode reads one image of any registered format and returns it as RGBA, downscaled to maxWidth when wider
// The header is checked against the dimension limits before any pixel is decoded
func Decode(r io.Reader, maxBytes int64, maxWidth int) (*image.RGBA, error) {
	data, err := io.ReadAll(&io.LimitedReader{R: r, N: maxBytes + 1})
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Downscale(img, maxWidth), nil
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("decode: empty image %dx%d", w, h)
	}
	if w > parameter.ImageMaxDimension || h > parameter.ImageMaxDimension || w*h > parameter.ImageMaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	return nil
}

// Downscale returns img as RGBA no wider than maxWidth, keeping aspect ratio
// maxWidth <= 0 disables scaling
func Downscale(img image.Image, maxWidth int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = max(h*maxWidth/w, 1)
		w = maxWidth
	}

	if rgba, ok := img.(*image.RGBA); ok && w == b.Dx() && b.Min == (image.Point{}) {
		return rgba
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return dst
}
