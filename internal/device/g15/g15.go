// Package g15 drives the 160x43 monochrome LCD of Logitech G-series keyboards
// (G15, G15 v2, G510, G13) over USB HID.
//
// The panel is written with a single 992 byte output report: report id 0x03, a
// 32 byte header, then 160 columns for each of six 8-row pages, bit 0 being the
// top row of a page. The four soft keys under the panel arrive in input report
// 0x02.
package g15

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/karalabe/hid"
	"go.uber.org/atomic"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/logging"
	"github.com/n0rule/nanachi/monoframe"
)

// Panel geometry.
const (
	Width  = 160
	Height = 43
)

// VendorID is Logitech's USB vendor id.
const VendorID = 0x046d

const (
	reportLCD  = 0x03
	reportKeys = 0x02
	headerLen  = 32
	pages      = (Height + 7) / 8
	reportLen  = headerLen + Width*pages

	// usagePageVendor marks the interface carrying the LCD on multi-interface keyboards.
	usagePageVendor = 0xff00

	closeTimeout = time.Second
)

// Products lists the keyboards with a monochrome LCD.
var Products = map[uint16]string{
	0xc222: "G15",
	0xc227: "G15 v2",
	0xc22d: "G510",
	0xc22e: "G510 (audio)",
	0xc21c: "G13",
}

// softKeys gives the byte and bit of each soft key in a key report.
var softKeys = [lcd.Buttons]struct {
	offset int
	mask   byte
}{
	{2, 0x80},
	{3, 0x80},
	{4, 0x80},
	{5, 0x80},
}

// ErrNotFound is returned by Open when no supported keyboard is connected.
var ErrNotFound = errors.New("g15: no keyboard with a monochrome LCD found")

type hidConn interface {
	Close() error
	Write([]byte) (int, error)
	Read([]byte) (int, error)
}

// Dev is an open keyboard LCD implementing lcd.Device.
type Dev struct {
	conn   hidConn
	name   string
	logger *logging.Logger

	mu       sync.Mutex
	canvas   *lcd.Canvas
	composed *monoframe.Frame
	report   []byte
	last     []byte
	written  bool

	keys   [lcd.Buttons]atomic.Bool
	closed atomic.Bool
	done   chan struct{}
}

var _ lcd.Device = (*Dev)(nil)

// Open connects to the first supported keyboard, or to the given product id when
// it is non-zero.
func Open(product uint16, logger *logging.Logger) (*Dev, error) {
	if !hid.Supported() {
		return nil, &lcd.DeviceError{Op: "open", Err: errors.New("USB HID is not supported on this platform")}
	}

	var found *hid.DeviceInfo
	for _, info := range hid.Enumerate(VendorID, 0) {
		if _, ok := Products[info.ProductID]; !ok {
			continue
		}
		if product != 0 && info.ProductID != product {
			continue
		}
		if found == nil || info.UsagePage == usagePageVendor {
			found = &info
		}
	}
	if found == nil {
		return nil, &lcd.DeviceError{Op: "open", Err: ErrNotFound}
	}

	fd, err := found.Open()
	if err != nil {
		return nil, &lcd.DeviceError{Op: "open", Err: fmt.Errorf("%s: %w", Products[found.ProductID], err)}
	}
	return newDev(fd, Products[found.ProductID], logger), nil
}

func newDev(conn hidConn, name string, logger *logging.Logger) *Dev {
	if logger == nil {
		logger = logging.Nop()
	}
	rect := image.Rect(0, 0, Width, Height)
	d := &Dev{
		conn:     conn,
		name:     name,
		logger:   logger,
		canvas:   lcd.NewCanvas(rect),
		composed: monoframe.New(rect),
		report:   make([]byte, reportLen),
		last:     make([]byte, reportLen),
		done:     make(chan struct{}),
	}
	go d.listen()
	return d
}

// Name returns the keyboard model.
func (d *Dev) Name() string {
	return d.name
}

func (d *Dev) listen() {
	defer close(d.done)

	buf := make([]byte, 64)
	for {
		n, err := d.conn.Read(buf)
		if err != nil {
			if !d.closed.Load() {
				d.logger.Warn().Err(err).Str("device", d.name).Msg("Key reader stopped")
			}
			for i := range d.keys {
				d.keys[i].Store(false)
			}
			return
		}
		d.handleInput(buf[:n])
	}
}

func (d *Dev) handleInput(b []byte) {
	if len(b) == 0 || b[0] != reportKeys {
		return
	}
	for i, k := range softKeys {
		if k.offset < len(b) {
			d.keys[i].Store(b[k.offset]&k.mask != 0)
		}
	}
}

// Bounds implements lcd.Display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// SetText implements lcd.Display.
func (d *Dev) SetText(line int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return lcd.ErrClosed
	}
	return d.canvas.SetText(line, text)
}

// SetBackground implements lcd.Display.
func (d *Dev) SetBackground(f *monoframe.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return lcd.ErrClosed
	}
	return d.canvas.SetBackground(f)
}

// Update composes the canvas and writes it when it differs from the panel.
func (d *Dev) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return lcd.ErrClosed
	}

	d.canvas.Compose(d.composed)
	encode(d.report, d.composed)
	if d.written && bytes.Equal(d.report, d.last) {
		return nil
	}
	if _, err := d.conn.Write(d.report); err != nil {
		return &lcd.DeviceError{Op: "update", Err: err}
	}
	copy(d.last, d.report)
	d.written = true
	return nil
}

// encode packs f into an LCD output report.
func encode(report []byte, f *monoframe.Frame) {
	clear(report)
	report[0] = reportLCD
	for y := 0; y < Height; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+Width]
		page := report[headerLen+(y/8)*Width:]
		bit := byte(1) << (y % 8)
		for x, v := range row {
			if v != 0 {
				page[x] |= bit
			}
		}
	}
}

// Pressed implements lcd.Input.
func (d *Dev) Pressed(button int) bool {
	if button < 0 || button >= lcd.Buttons || d.closed.Load() {
		return false
	}
	return d.keys[button].Load()
}

// Close blanks the panel and releases the keyboard. Further calls return
// lcd.ErrClosed.
func (d *Dev) Close() error {
	d.mu.Lock()
	if d.closed.Swap(true) {
		d.mu.Unlock()
		return lcd.ErrClosed
	}
	clear(d.report)
	d.report[0] = reportLCD
	if _, err := d.conn.Write(d.report); err != nil {
		d.logger.Debug().Err(err).Msg("Failed to blank panel")
	}
	d.mu.Unlock()

	err := d.conn.Close()
	select {
	case <-d.done:
	case <-time.After(closeTimeout):
		d.logger.Warn().Str("device", d.name).Msg("Key reader did not stop")
	}
	if err != nil {
		return &lcd.DeviceError{Op: "close", Err: err}
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("g15.Dev{%s}", d.name)
}
