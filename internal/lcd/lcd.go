// Package lcd defines the display and input collaborators the applet drives, and the
// pieces shared by every backend: serialized access, display settings and the text layer.
package lcd

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/n0rule/nanachi/monoframe"
)

// Lines is the number of text lines on the panel.
const Lines = 4

// Buttons is the number of soft buttons below the panel.
const Buttons = 4

// ErrClosed is returned by a backend after Close.
var ErrClosed = errors.New("lcd: device closed")

// Display is a monochrome panel with a background layer and four text lines.
// SetText and SetBackground only stage content; Update makes it visible.
type Display interface {
	Bounds() image.Rectangle
	SetText(line int, text string) error
	SetBackground(f *monoframe.Frame) error
	Update() error
	Close() error
}

// Input reports the current state of the soft buttons. There is no event queue.
type Input interface {
	Pressed(button int) bool
}

// Device is a backend providing both collaborators.
type Device interface {
	Display
	Input
}

// DeviceError is a failure reported by a backend.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("lcd: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Locked serializes access to a Display so a push and its Update are never
// interleaved with another loop's writes.
type Locked struct {
	mu sync.Mutex
	d  Display
}

// NewLocked wraps d.
func NewLocked(d Display) *Locked {
	return &Locked{d: d}
}

// Bounds returns the wrapped display's bounds.
func (l *Locked) Bounds() image.Rectangle {
	return l.d.Bounds()
}

// Do runs fn with exclusive access to the display.
func (l *Locked) Do(fn func(Display) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.d)
}

// Show pushes f as the background and updates the panel.
func (l *Locked) Show(f *monoframe.Frame) error {
	return l.Do(func(d Display) error {
		if err := d.SetBackground(f); err != nil {
			return err
		}
		return d.Update()
	})
}

// CheckLine validates a text line index.
func CheckLine(line int) error {
	if line < 0 || line >= Lines {
		return fmt.Errorf("lcd: text line %d out of range", line)
	}
	return nil
}

// CheckFrame validates a background frame against the display bounds.
func CheckFrame(f *monoframe.Frame, bounds image.Rectangle) error {
	if f == nil {
		return errors.New("lcd: nil frame")
	}
	if f.Rect.Size() != bounds.Size() || len(f.Pix) != bounds.Dx()*bounds.Dy() {
		return fmt.Errorf("lcd: frame is %v, display is %v", f.Rect.Size(), bounds.Size())
	}
	return nil
}
