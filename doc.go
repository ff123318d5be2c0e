// Package nanachi converts expression artwork into frames for a monochrome LCD panel.
//
// The panel has a fixed native resolution (160×43 on Logitech G-series keyboards) and
// takes one byte per pixel, 0 for off and 255 for on. Convert and LoadFrame turn an
// image of exactly that size into a monoframe.Frame; any other size is rejected rather
// than scaled.
//
// # Thresholding
//
// Each pixel is reduced to on/off by looking at a single channel: the blue component,
// which is the first byte of a 32-bit GDI+ pixel. A pixel is on when that value is at
// least 128. There is no dithering, gamma correction or alpha handling. This is not a
// weighted luminance, so artwork should be drawn in grayscale.
//
// # Errors
//
// Failures are reported through three sentinel errors that can be tested with errors.Is:
//
//	ErrLoad               the file is missing or unreadable
//	ErrDecode             the data is not a supported image, or it has zero size
//	ErrDimensionMismatch  the image size differs from the panel size
//
// A *DimensionError carries the sizes involved.
//
// # Formats
//
// PNG, JPEG, GIF and BMP files are decoded.
//
// # Basic Usage
//
//	frame, err := nanachi.LoadFrame("res/nanachi.png", 160, 43)
//	if err != nil {
//		return err
//	}
//	display.SetBackground(frame)
package nanachi
