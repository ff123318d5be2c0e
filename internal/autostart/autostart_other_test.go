//go:build !windows

package autostart

import (
	"errors"
	"testing"
)

func TestUnsupported(t *testing.T) {
	if _, err := Enabled(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Enabled() error = %v", err)
	}
	if err := Enable("nanachi"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Enable() error = %v", err)
	}
	if err := Disable(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Disable() error = %v", err)
	}
	if _, err := Toggle("nanachi"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Toggle() error = %v", err)
	}
}
