package lcd

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/n0rule/nanachi/monoframe"
)

// Canvas is the staged content of a panel: a background frame plus text lines.
// Backends without a firmware text layer compose it themselves with Compose.
// Canvas is not safe for concurrent use.
type Canvas struct {
	rect       image.Rectangle
	background *monoframe.Frame
	lines      [Lines]string
	mask       *image.Alpha
}

// NewCanvas creates a blank canvas for a panel with the given bounds.
func NewCanvas(r image.Rectangle) *Canvas {
	return &Canvas{
		rect:       r,
		background: monoframe.New(r),
		mask:       image.NewAlpha(r),
	}
}

// Bounds returns the panel bounds.
func (c *Canvas) Bounds() image.Rectangle {
	return c.rect
}

// SetText stages a text line.
func (c *Canvas) SetText(line int, text string) error {
	if err := CheckLine(line); err != nil {
		return err
	}
	c.lines[line] = text
	return nil
}

// Text returns a staged text line.
func (c *Canvas) Text(line int) string {
	if CheckLine(line) != nil {
		return ""
	}
	return c.lines[line]
}

// SetBackground stages a copy of f.
func (c *Canvas) SetBackground(f *monoframe.Frame) error {
	if err := CheckFrame(f, c.rect); err != nil {
		return err
	}
	copy(c.background.Pix, f.Pix)
	return nil
}

// Compose renders the background with the text lines on top into dst, which must
// have the canvas bounds. Text pixels invert whatever is beneath them so they stay
// readable on both light and dark artwork.
func (c *Canvas) Compose(dst *monoframe.Frame) {
	copy(dst.Pix, c.background.Pix)

	empty := true
	for _, s := range c.lines {
		if s != "" {
			empty = false
			break
		}
	}
	if empty {
		return
	}

	draw.Draw(c.mask, c.rect, image.Transparent, image.Point{}, draw.Src)
	face := basicfont.Face7x13
	for i, s := range c.lines {
		if s == "" {
			continue
		}
		d := font.Drawer{
			Dst:  c.mask,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P(c.rect.Min.X+1, c.baseline(i)),
		}
		d.DrawString(s)
	}

	for y := c.rect.Min.Y; y < c.rect.Max.Y; y++ {
		for x := c.rect.Min.X; x < c.rect.Max.X; x++ {
			if c.mask.AlphaAt(x, y).A >= monoframe.Threshold {
				dst.Flip(x, y)
			}
		}
	}
}

// Glyphs of basicfont.Face7x13 are inked from 9 rows above the baseline to 1 row
// below it.
const (
	inkAbove  = 9
	inkBelow  = 1
	inkHeight = inkAbove + 1 + inkBelow
)

// baseline returns the baseline row of a text line. Lines are spaced so their ink
// never shares a row; on a 43 row panel only the lowest descender row of the last
// line falls off the bottom.
func (c *Canvas) baseline(line int) int {
	pitch := max((c.rect.Dy()+inkBelow)/Lines, inkHeight)
	return c.rect.Min.Y + pitch*line + inkAbove
}

// Frame returns a freshly composed frame.
func (c *Canvas) Frame() *monoframe.Frame {
	f := monoframe.New(c.rect)
	c.Compose(f)
	return f
}
