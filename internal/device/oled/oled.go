package oled

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/monoframe"
)

// Opts is the configuration for the panel.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 256, must be a multiple of 4 and ≤480)
	H int // Height (default: 64, must be ≤128)

	// Rotation and mirroring
	Rotated       bool // 180° rotation
	Sequential    bool // Sequential COM pin configuration
	SwapTopBottom bool // Swap top/bottom display halves

	// Contrast current, 0 means maximum.
	Contrast byte
	// Invert swaps lit and dark pixels in hardware.
	Invert bool

	// Optional hardware reset pin
	RST gpio.PinIO

	// Buttons are wired to ground; nil entries are never pressed.
	Buttons [lcd.Buttons]gpio.PinIO
}

// Dev is a SSD1322 panel implementing lcd.Device.
type Dev struct {
	// Communication
	c   conn.Conn   // SPI connection
	dc  gpio.PinOut // Data/Command pin
	rst gpio.PinIO  // Reset pin (optional)

	buttons [lcd.Buttons]gpio.PinIO

	// Display geometry
	rect         image.Rectangle
	columnOffset int // For centering on 480-column RAM, a multiple of 4

	canvas   *lcd.Canvas
	composed *monoframe.Frame

	// Nibble packed frames, two pixels per byte. last mirrors the panel RAM.
	next []byte
	last []byte

	halted bool
}

var _ lcd.Device = (*Dev)(nil)

// NewSPI opens the panel on p. The dc (Data/Command) pin must be an output.
// opts can be nil to use defaults (256x64 panel, no buttons).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	if o.W == 0 && o.H == 0 {
		o.W, o.H = 256, 64
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	// SSD1322 supports Mode0 (CPOL=0, CPHA=0) or Mode3 (CPOL=1, CPHA=1)
	// Using Mode0 and 10MHz (conservative, up to 20MHz supported)
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, &lcd.DeviceError{Op: "connect", Err: err}
	}

	d := newDev(c, dc, &o)
	for i, pin := range o.Buttons {
		if pin == nil {
			continue
		}
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, &lcd.DeviceError{Op: "button", Err: fmt.Errorf("%s: %w", pin, err)}
		}
		d.buttons[i] = pin
	}

	if err := d.init(&o); err != nil {
		return nil, &lcd.DeviceError{Op: "init", Err: err}
	}
	return d, nil
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W%4 != 0 || o.W > 480 {
		return errors.New("oled: width must be a multiple of 4 between 4 and 480")
	}
	if o.H <= 0 || o.H > 128 {
		return errors.New("oled: height must be between 1 and 128")
	}
	return nil
}

func newDev(c conn.Conn, dc gpio.PinOut, o *Opts) *Dev {
	rect := image.Rect(0, 0, o.W, o.H)
	return &Dev{
		c:            c,
		dc:           dc,
		rst:          o.RST,
		rect:         rect,
		columnOffset: (480 - o.W) / 8 * 4,
		canvas:       lcd.NewCanvas(rect),
		composed:     monoframe.New(rect),
		next:         make([]byte, o.W*o.H/2),
		last:         make([]byte, o.W*o.H/2),
	}
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	// Hardware reset sequence (if RST pin is provided)
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("failed to pull RST low: %w", err)
		}
		time.Sleep(200 * time.Millisecond)

		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("failed to pull RST high: %w", err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	if err := d.sendCommands(initSequence(opts)); err != nil {
		return err
	}

	// The RAM is cleared so it matches the zeroed last frame.
	if err := d.clearRAM(); err != nil {
		return err
	}

	// Turn display ON
	return d.sendCommand(0xAF)
}

func initSequence(opts *Opts) []byte {
	cmds := []byte{
		0xFD, 0x12, // Unlock command codes
		0xAE,       // Display OFF
		0xB3, 0xF2, // Clock divider and oscillator frequency
		0xCA, byte(opts.H - 1), // MUX ratio
		0xA2, 0x00, // Display offset
		0xA1, 0x00, // Start line
	}

	// Remap settings: adjust for rotation and mirroring
	remap1, remap2 := byte(0x14), byte(0x11)
	if opts.Rotated {
		remap1 = 0x06
	}
	if opts.Sequential {
		remap2 |= 0x01
	}
	if opts.SwapTopBottom {
		remap2 |= 0x02
	}

	contrast := opts.Contrast
	if contrast == 0 {
		contrast = 0xFF
	}
	mode := byte(0xA6) // Normal display
	if opts.Invert {
		mode = 0xA7
	}

	return append(cmds,
		0xA0, remap1, remap2, // Remap and dual COM mode
		0xAB, 0x01, // Function selection (enable internal VDD)
		0xB4, 0xA0, 0xFD, // VSL (display enhancement)
		0xC1, contrast, // Contrast current
		0xC7, 0x0F, // Master contrast
		0xB9,       // Use default grayscale table
		0xB1, 0xE2, // Phase length
		0xD1, 0x82, 0x20, // Display enhancements
		0xBB, 0x1F, // Pre-charge voltage
		0xB6, 0x08, // Second pre-charge period
		0xBE, 0x07, // VCOMH voltage
		mode,
		0xA9, // Exit partial display mode
	)
}

// clearRAM clears all pixels in the display RAM.
func (d *Dev) clearRAM() error {
	return d.writeRect(0, 0, d.rect.Dx(), d.rect.Dy(), make([]byte, len(d.last)))
}

// sendCommand sends a single command byte.
func (d *Dev) sendCommand(cmd byte) error {
	return d.sendCommands([]byte{cmd})
}

// sendCommands sends a slice of command bytes.
func (d *Dev) sendCommands(cmds []byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx(cmds, nil)
}

// sendData sends a slice of data bytes.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}

// writeRect writes pixel data to a rectangular region of the display.
func (d *Dev) writeRect(x, y, width, height int, pixels []byte) error {
	// Column addresses count groups of 4 pixels
	colStart := byte((x + d.columnOffset) / 4)
	colEnd := byte((x + width - 1 + d.columnOffset) / 4)

	commands := []byte{
		0x15, colStart, colEnd, // Column address
		0x75, byte(y), byte(y + height - 1), // Row address
		0x5C, // Enable write to RAM
	}
	if err := d.sendCommands(commands); err != nil {
		return err
	}
	return d.sendData(pixels)
}

// Bounds implements lcd.Display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// SetText implements lcd.Display.
func (d *Dev) SetText(line int, text string) error {
	if d.halted {
		return lcd.ErrClosed
	}
	return d.canvas.SetText(line, text)
}

// SetBackground implements lcd.Display.
func (d *Dev) SetBackground(f *monoframe.Frame) error {
	if d.halted {
		return lcd.ErrClosed
	}
	return d.canvas.SetBackground(f)
}

// Update composes the canvas and sends the smallest rectangle that changed.
func (d *Dev) Update() error {
	if d.halted {
		return lcd.ErrClosed
	}

	d.canvas.Compose(d.composed)
	pack(d.next, d.composed)

	minCol, maxCol, minRow, maxRow := d.calculateDiff()
	if minCol > maxCol {
		return nil
	}

	changed := d.extractRegion(minCol, maxCol, minRow, maxRow)
	if err := d.writeRect(minCol, minRow, maxCol-minCol+1, maxRow-minRow+1, changed); err != nil {
		return &lcd.DeviceError{Op: "update", Err: err}
	}
	copy(d.last, d.next)
	return nil
}

// pack converts a mono frame to horizontal nibbles, high nibble first.
func pack(dst []byte, f *monoframe.Frame) {
	for i := range dst {
		var b byte
		if f.Pix[2*i] != 0 {
			b |= 0xF0
		}
		if f.Pix[2*i+1] != 0 {
			b |= 0x0F
		}
		dst[i] = b
	}
}

// calculateDiff compares the last and next buffers to find the minimal changed
// region, aligned to the 4 pixel RAM column groups. It returns minCol > maxCol when
// nothing changed.
func (d *Dev) calculateDiff() (minCol, maxCol, minRow, maxRow int) {
	width := d.rect.Dx()
	height := d.rect.Dy()
	stride := width / 2

	minRow, maxRow = height, -1
	minCol, maxCol = width, -1

	for y := 0; y < height; y++ {
		row := y * stride
		if bytes.Equal(d.last[row:row+stride], d.next[row:row+stride]) {
			continue
		}
		minRow = min(minRow, y)
		maxRow = max(maxRow, y)

		for x := 0; x < stride; x++ {
			if d.last[row+x] != d.next[row+x] {
				minCol = min(minCol, x*2)
				maxCol = max(maxCol, x*2+1)
			}
		}
	}
	if maxCol < 0 {
		return 1, 0, 0, 0
	}

	// Grow to whole column groups.
	return minCol / 4 * 4, maxCol/4*4 + 3, minRow, maxRow
}

// extractRegion extracts the pixel data for a rectangular region.
func (d *Dev) extractRegion(minCol, maxCol, minRow, maxRow int) []byte {
	stride := d.rect.Dx() / 2
	byteWidth := (maxCol - minCol + 1) / 2

	result := make([]byte, 0, byteWidth*(maxRow-minRow+1))
	for y := minRow; y <= maxRow; y++ {
		start := y*stride + minCol/2
		result = append(result, d.next[start:start+byteWidth]...)
	}
	return result
}

// Pressed implements lcd.Input. Buttons pull their pin low.
func (d *Dev) Pressed(button int) bool {
	if d.halted || button < 0 || button >= lcd.Buttons || d.buttons[button] == nil {
		return false
	}
	return d.buttons[button].Read() == gpio.Low
}

// SetContrast sets the contrast current (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return lcd.ErrClosed
	}
	return d.sendCommands([]byte{0xC1, contrast})
}

// Invert inverts the display colors (black becomes white and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return lcd.ErrClosed
	}
	mode := byte(0xA6) // Normal display
	if invert {
		mode = 0xA7 // Inverted display
	}
	return d.sendCommand(mode)
}

// Close turns the panel off. Further calls return lcd.ErrClosed.
func (d *Dev) Close() error {
	if d.halted {
		return lcd.ErrClosed
	}
	d.halted = true
	return d.sendCommand(0xAE) // Display OFF
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("oled.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
