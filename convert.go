package nanachi

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/n0rule/nanachi/monoframe"
	_ "golang.org/x/image/bmp"
)

var (
	// ErrLoad is returned when an image file is missing or cannot be read.
	ErrLoad = errors.New("nanachi: cannot load image")
	// ErrDecode is returned when image data cannot be decoded or is empty.
	ErrDecode = errors.New("nanachi: cannot decode image")
	// ErrDimensionMismatch is returned when an image is not exactly the target size.
	ErrDimensionMismatch = errors.New("nanachi: image dimensions do not match display")
)

// DimensionError describes an image whose size differs from the display.
type DimensionError struct {
	Got  image.Point
	Want image.Point
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("nanachi: image is %dx%d, display is %dx%d", e.Got.X, e.Got.Y, e.Want.X, e.Want.Y)
}

// Is makes errors.Is(err, ErrDimensionMismatch) true for a *DimensionError.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// Convert reduces img to a width×height monochrome frame. The returned frame
// always has bounds (0, 0, width, height), whatever the origin of img.
func Convert(img image.Image, width, height int) (*monoframe.Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no pixel data", ErrDecode)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero size image", ErrDecode)
	}
	if b.Dx() != width || b.Dy() != height {
		return nil, &DimensionError{
			Got:  image.Pt(b.Dx(), b.Dy()),
			Want: image.Pt(width, height),
		}
	}

	f := monoframe.New(image.Rect(0, 0, width, height))

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < width; x++ {
				f.Pix[y*f.Stride+x] = levelByte(row[x*4+2])
			}
		}
	case *image.Gray:
		for y := 0; y < height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < width; x++ {
				f.Pix[y*f.Stride+x] = levelByte(row[x])
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				f.Pix[y*f.Stride+x] = monoframe.MonoModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(monoframe.Mono).Byte()
			}
		}
	}
	return f, nil
}

// LoadFrame reads an image file and converts it with Convert.
func LoadFrame(path string, width, height int) (*monoframe.Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	defer fh.Close()

	if fi, err := fh.Stat(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	} else if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s: is a directory", ErrLoad, path)
	}

	img, _, err := image.Decode(bufio.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	f, err := Convert(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func levelByte(v uint8) byte {
	if monoframe.Level(v) {
		return monoframe.On.Byte()
	}
	return monoframe.Off.Byte()
}
