package cli

import (
	"errors"
	"fmt"
	"image"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/n0rule/nanachi/internal/config"
	"github.com/n0rule/nanachi/internal/device/g15"
	"github.com/n0rule/nanachi/internal/device/headless"
	"github.com/n0rule/nanachi/internal/device/oled"
	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/logging"
)

// panelSize is the resolution assets must have for the configured backend.
func panelSize(cfg *config.Config) image.Point {
	switch cfg.Backend {
	case config.BackendOLED:
		return image.Pt(cfg.OLED.Width, cfg.OLED.Height)
	case config.BackendHeadless:
		return image.Pt(cfg.Headless.Width, cfg.Headless.Height)
	default:
		return image.Pt(g15.Width, g15.Height)
	}
}

func openDevice(cfg *config.Config, logger *logging.Logger) (lcd.Device, error) {
	switch cfg.Backend {
	case config.BackendG15:
		return g15.Open(cfg.G15.Product, logger.Named("g15"))
	case config.BackendOLED:
		return openOLED(&cfg.OLED)
	case config.BackendHeadless:
		return headless.New(cfg.Headless.Snapshot, cfg.Headless.Width, cfg.Headless.Height), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// portDevice closes the SPI port after the panel.
type portDevice struct {
	lcd.Device
	port io.Closer
}

func (d *portDevice) Close() error {
	return errors.Join(d.Device.Close(), d.port.Close())
}

func openOLED(c *config.OLEDConfig) (lcd.Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, &lcd.DeviceError{Op: "open", Err: fmt.Errorf("periph host init: %w", err)}
	}

	dc, err := pin(c.DC)
	if err != nil {
		return nil, err
	}
	opts := &oled.Opts{
		W:        c.Width,
		H:        c.Height,
		Rotated:  c.Rotated,
		Contrast: byte(c.Contrast),
		Invert:   c.Invert,
	}
	if c.RST != "" {
		if opts.RST, err = pin(c.RST); err != nil {
			return nil, err
		}
	}
	for i, name := range c.Buttons {
		if name == "" {
			continue
		}
		if opts.Buttons[i], err = pin(name); err != nil {
			return nil, err
		}
	}

	port, err := spireg.Open(c.SPI)
	if err != nil {
		return nil, &lcd.DeviceError{Op: "open", Err: fmt.Errorf("spi %q: %w", c.SPI, err)}
	}
	dev, err := oled.NewSPI(port, dc, opts)
	if err != nil {
		port.Close()
		return nil, err
	}
	return &portDevice{Device: dev, port: port}, nil
}

func pin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, &lcd.DeviceError{Op: "open", Err: fmt.Errorf("no GPIO named %q", name)}
	}
	return p, nil
}
