//go:build !windows

package autostart

// Enabled always reports false with ErrUnsupported.
func Enabled() (bool, error) {
	return false, ErrUnsupported
}

// Enable returns ErrUnsupported.
func Enable(string) error {
	return ErrUnsupported
}

// Disable returns ErrUnsupported.
func Disable() error {
	return ErrUnsupported
}
