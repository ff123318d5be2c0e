// Package oled drives the applet on a SSD1322 OLED panel over SPI, with up to four
// GPIO push buttons standing in for the keyboard's soft keys.
//
// The SSD1322 is a 4-bit grayscale controller with 480x128 pixels of RAM. The applet
// only ever lights pixels fully, so a mono pixel maps to nibble 0x0 or 0xF.
//
// # Hardware Connection
//
// Connect the SSD1322 display to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V (or 5V depending on display)
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select (or GND if always selected)
//	RES         → Optional: GPIO for hardware reset
//
// Each button goes between a GPIO and GND. The pins are configured with the
// internal pull-up, so a pressed button reads low.
//
// # Usage
//
//	if _, err := host.Init(); err != nil {
//		return err
//	}
//	bus, err := spireg.Open("")
//	if err != nil {
//		return err
//	}
//	dev, err := oled.NewSPI(bus, gpioreg.ByName("GPIO25"), &oled.Opts{
//		W:       256,
//		H:       64,
//		RST:     gpioreg.ByName("GPIO27"),
//		Buttons: [lcd.Buttons]gpio.PinIO{gpioreg.ByName("GPIO5"), gpioreg.ByName("GPIO6")},
//	})
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//
// # Updates
//
// SetBackground and SetText only stage content. Update composes the text over the
// background, packs it into nibbles and writes the smallest rectangle of whole
// 4-pixel RAM columns that changed since the last Update. An unchanged frame
// costs no bus traffic.
//
// # Datasheet
//
// For detailed register descriptions and timing information, see:
// https://www.displayfuture.com/Display/datasheet/controller/SSD1322.pdf
package oled
