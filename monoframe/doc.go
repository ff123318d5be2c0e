// Package monoframe provides the on/off pixel format consumed by monochrome LCD panels.
//
// A Frame stores one byte per pixel, row-major, with no padding between rows. Every byte
// is either Off (0) or On (255), which is the buffer layout Logitech's monochrome LCD
// expects for its background layer:
//
//	Pixels: 0    1    2    3
//	State:  on   off  off  on
//	Bytes:  0xFF 0x00 0x00 0xFF
//
// This package provides:
//
// - Mono: a color type with two states
// - MonoModel: a color model that reduces any color to Mono by thresholding one channel
// - Frame: an image.Image / draw.Image implementation over the flat byte buffer
//
// MonoModel reads the blue component only. Windows GDI+ stores 32 bits per pixel as
// B,G,R,X, and the applet this format was built for thresholded the first byte of each
// pixel, so blue is the channel that decides. It is not a perceptual luma.
//
// Example usage:
//
//	f := monoframe.New(image.Rect(0, 0, 160, 43))
//	f.SetMono(10, 20, monoframe.On)
//	draw.Draw(f, f.Bounds(), src, image.Point{}, draw.Src)
//	buf := f.Bytes() // 160*43 bytes, each 0 or 255
package monoframe
