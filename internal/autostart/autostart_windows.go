//go:build windows

package autostart

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// Enabled reports whether the applet is registered.
func Enabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, RunKey, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("failed to open Run registry key: %w", err)
	}
	defer key.Close()

	_, _, err = key.GetStringValue(ValueName)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", ValueName, err)
	}
	return true, nil
}

// Enable registers exe to run at logon.
func Enable(exe string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, RunKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run registry key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue(ValueName, Command(exe)); err != nil {
		return fmt.Errorf("failed to write %s: %w", ValueName, err)
	}
	return nil
}

// Disable removes the registration. Removing a missing entry is not an error.
func Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, RunKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run registry key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(ValueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", ValueName, err)
	}
	return nil
}
