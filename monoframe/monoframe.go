package monoframe

import (
	"bytes"
	"image"
	"image/color"
)

// Threshold is the lowest channel value that turns a pixel on.
const Threshold = 128

const (
	offByte = 0x00
	onByte  = 0xFF
)

// Mono is a two-state color.
type Mono struct {
	On bool
}

var (
	Off = Mono{}
	On  = Mono{On: true}
)

// RGBA converts the pixel to opaque black or white.
func (c Mono) RGBA() (r, g, b, a uint32) {
	if c.On {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// Byte returns the buffer representation of c.
func (c Mono) Byte() byte {
	if c.On {
		return onByte
	}
	return offByte
}

// Level reports whether a single 8-bit channel value turns a pixel on.
func Level(v uint8) bool {
	return v >= Threshold
}

func toMono(c color.Color) color.Color {
	if m, ok := c.(Mono); ok {
		return m
	}
	// Straight (non-premultiplied) blue; alpha is ignored.
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Mono{On: Level(n.B)}
}

// MonoModel converts colors to Mono using the blue channel threshold.
var MonoModel = color.ModelFunc(toMono)

// Frame is a monochrome image holding one 0/255 byte per pixel.
type Frame struct {
	Pix    []byte          // Pixel data, one byte per pixel
	Stride int             // Bytes per row (equal to the width)
	Rect   image.Rectangle // Image bounds
}

// New creates a Frame with every pixel off.
func New(r image.Rectangle) *Frame {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Frame{Rect: r}
	}
	return &Frame{
		Pix:    make([]byte, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns MonoModel.
func (f *Frame) ColorModel() color.Model {
	return MonoModel
}

// Bounds returns the image bounds.
func (f *Frame) Bounds() image.Rectangle {
	return f.Rect
}

// At returns the color of the pixel at (x, y).
func (f *Frame) At(x, y int) color.Color {
	return f.MonoAt(x, y)
}

// MonoAt returns the Mono color of the pixel at (x, y). Pixels outside the
// bounds are Off.
func (f *Frame) MonoAt(x, y int) Mono {
	if !(image.Point{X: x, Y: y}.In(f.Rect)) {
		return Off
	}
	return Mono{On: f.Pix[f.pixOffset(x, y)] != offByte}
}

// Set sets the pixel at (x, y) after converting c with MonoModel.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetMono(x, y, MonoModel.Convert(c).(Mono))
}

// SetMono sets the pixel at (x, y). Writes outside the bounds are ignored.
func (f *Frame) SetMono(x, y int, c Mono) {
	if !(image.Point{X: x, Y: y}.In(f.Rect)) {
		return
	}
	f.Pix[f.pixOffset(x, y)] = c.Byte()
}

// Flip inverts the pixel at (x, y).
func (f *Frame) Flip(x, y int) {
	if !(image.Point{X: x, Y: y}.In(f.Rect)) {
		return
	}
	i := f.pixOffset(x, y)
	f.Pix[i] = ^f.Pix[i]
}

// Bytes returns the flat pixel buffer. The slice aliases the frame.
func (f *Frame) Bytes() []byte {
	return f.Pix
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := &Frame{Stride: f.Stride, Rect: f.Rect}
	c.Pix = append([]byte(nil), f.Pix...)
	return c
}

// Equal reports whether both frames have the same bounds and pixels.
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Rect == o.Rect && bytes.Equal(f.Pix, o.Pix)
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c Mono) {
	b := c.Byte()
	for i := range f.Pix {
		f.Pix[i] = b
	}
}

func (f *Frame) pixOffset(x, y int) int {
	return (y-f.Rect.Min.Y)*f.Stride + (x - f.Rect.Min.X)
}
