// Package lcdtest provides in-memory lcd collaborators for tests.
package lcdtest

import (
	"image"
	"sync"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/monoframe"
)

// Display records every call made to it. It is safe for concurrent use.
type Display struct {
	mu          sync.Mutex
	rect        image.Rectangle
	lines       [lcd.Lines]string
	backgrounds []*monoframe.Frame
	updates     int
	closed      bool

	// Err, when set, is returned by SetBackground and Update.
	Err error

	pushed chan *monoframe.Frame
}

// NewDisplay returns a recording display of the given size.
func NewDisplay(width, height int) *Display {
	return &Display{
		rect:   image.Rect(0, 0, width, height),
		pushed: make(chan *monoframe.Frame, 64),
	}
}

// Bounds implements lcd.Display.
func (d *Display) Bounds() image.Rectangle {
	return d.rect
}

// SetText implements lcd.Display.
func (d *Display) SetText(line int, text string) error {
	if err := lcd.CheckLine(line); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines[line] = text
	return nil
}

// SetBackground implements lcd.Display.
func (d *Display) SetBackground(f *monoframe.Frame) error {
	if err := lcd.CheckFrame(f, d.rect); err != nil {
		return err
	}
	d.mu.Lock()
	if d.Err != nil {
		err := d.Err
		d.mu.Unlock()
		return err
	}
	c := f.Clone()
	d.backgrounds = append(d.backgrounds, c)
	d.mu.Unlock()

	select {
	case d.pushed <- c:
	default:
	}
	return nil
}

// Update implements lcd.Display.
func (d *Display) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.updates++
	return nil
}

// Close implements lcd.Display.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// SetErr changes the error returned by SetBackground and Update.
func (d *Display) SetErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Err = err
}

// Pushed delivers each background as it is set. Backgrounds are dropped from
// the channel, not from the record, when nobody is receiving.
func (d *Display) Pushed() <-chan *monoframe.Frame {
	return d.pushed
}

// Backgrounds returns every background pushed so far.
func (d *Display) Backgrounds() []*monoframe.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*monoframe.Frame(nil), d.backgrounds...)
}

// Line returns the current text of a line.
func (d *Display) Line(i int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lines[i]
}

// Updates returns how many times Update succeeded.
func (d *Display) Updates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updates
}

// Closed reports whether Close was called.
func (d *Display) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Input is a settable button state. It is safe for concurrent use.
type Input struct {
	mu    sync.Mutex
	state [lcd.Buttons]bool
}

// Pressed implements lcd.Input.
func (in *Input) Pressed(button int) bool {
	if button < 0 || button >= lcd.Buttons {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state[button]
}

// Set changes the state of a button.
func (in *Input) Set(button int, pressed bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.state[button] = pressed
}
