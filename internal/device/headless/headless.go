// Package headless is a display without hardware. Every Update that changes the
// picture is written to a PNG file, which makes the applet usable for previews and
// on machines without a supported keyboard.
package headless

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/monoframe"
)

// Display renders to a PNG snapshot. It has no buttons.
type Display struct {
	path string

	mu       sync.Mutex
	canvas   *lcd.Canvas
	composed *monoframe.Frame
	last     *monoframe.Frame
	writes   int
	closed   bool
}

var _ lcd.Device = (*Display)(nil)

// New creates a width x height display writing snapshots to path. An empty path
// keeps frames in memory only.
func New(path string, width, height int) *Display {
	r := image.Rect(0, 0, width, height)
	return &Display{
		path:     path,
		canvas:   lcd.NewCanvas(r),
		composed: monoframe.New(r),
	}
}

// Bounds implements lcd.Display.
func (d *Display) Bounds() image.Rectangle {
	return d.canvas.Bounds()
}

// SetText implements lcd.Display.
func (d *Display) SetText(line int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return lcd.ErrClosed
	}
	return d.canvas.SetText(line, text)
}

// SetBackground implements lcd.Display.
func (d *Display) SetBackground(f *monoframe.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return lcd.ErrClosed
	}
	return d.canvas.SetBackground(f)
}

// Update composes the canvas and writes the snapshot if the picture changed.
func (d *Display) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return lcd.ErrClosed
	}

	d.canvas.Compose(d.composed)
	if d.last != nil && d.last.Equal(d.composed) {
		return nil
	}
	if d.path != "" {
		if err := writePNG(d.path, d.composed); err != nil {
			return &lcd.DeviceError{Op: "update", Err: err}
		}
	}
	d.last = d.composed.Clone()
	d.writes++
	return nil
}

// writePNG replaces path atomically so viewers never see a partial file.
func writePNG(path string, f *monoframe.Frame) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".nanachi-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, f); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Frame returns a copy of the last composed frame, or nil before the first Update.
func (d *Display) Frame() *monoframe.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return nil
	}
	return d.last.Clone()
}

// Writes returns how many distinct frames were produced.
func (d *Display) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// Pressed implements lcd.Input. No button is ever pressed.
func (d *Display) Pressed(int) bool {
	return false
}

// Close implements lcd.Display.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return lcd.ErrClosed
	}
	d.closed = true
	return nil
}
