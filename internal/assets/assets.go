// Package assets turns arbitrary artwork into expression images sized for a panel.
// The converter never scales, so this is the only place resizing happens.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/gift"

	"github.com/n0rule/nanachi"
)

// Options controls Prepare.
type Options struct {
	Width  int
	Height int
	// Contrast in percent, -100..100, applied before the image is saved.
	Contrast float32
	// Invert swaps light and dark, for artwork drawn dark on light.
	Invert bool
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("assets: invalid size %dx%d", o.Width, o.Height)
	}
	if o.Contrast < -100 || o.Contrast > 100 {
		return fmt.Errorf("assets: contrast %v out of range", o.Contrast)
	}
	return nil
}

// Prepare crops src to the panel's aspect ratio around its center, resizes it and
// reduces it to grayscale.
func Prepare(src image.Image, opts Options) (*image.Gray, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if src == nil || src.Bounds().Empty() {
		return nil, errors.New("assets: empty source image")
	}

	filters := []gift.Filter{
		gift.ResizeToFill(opts.Width, opts.Height, gift.LanczosResampling, gift.CenterAnchor),
		gift.Grayscale(),
	}
	if opts.Contrast != 0 {
		filters = append(filters, gift.Contrast(opts.Contrast))
	}
	if opts.Invert {
		filters = append(filters, gift.Invert())
	}

	g := gift.New(filters...)
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst, nil
}

// PrepareFile reads src, prepares it and writes the result as a PNG to dst. The
// result is checked with the converter so it is known to load.
func PrepareFile(src, dst string, opts Options) error {
	fh, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", nanachi.ErrLoad, src, err)
	}
	defer fh.Close()

	img, _, err := image.Decode(fh)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", nanachi.ErrDecode, src, err)
	}

	out, err := Prepare(img, opts)
	if err != nil {
		return err
	}
	if _, err := nanachi.Convert(out, opts.Width, opts.Height); err != nil {
		return err
	}
	return Save(dst, out)
}

// Save writes img to path as a PNG, creating the directory if needed.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(fh, img); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
