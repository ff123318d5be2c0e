// Package autostart registers the applet to start at logon. Only Windows is
// supported; other platforms return ErrUnsupported.
package autostart

import (
	"errors"
	"os"
	"path/filepath"
)

// RunKey is the per-user key Windows reads at logon, below HKEY_CURRENT_USER.
const RunKey = `Software\Microsoft\Windows\CurrentVersion\Run`

// ValueName names the applet's entry under RunKey.
const ValueName = "Nanachi Applet"

// ErrUnsupported is returned on platforms without autostart support.
var ErrUnsupported = errors.New("autostart: not supported on this platform")

// Command returns the command line stored for exe.
func Command(exe string) string {
	return `"` + filepath.Clean(exe) + `"`
}

// Executable returns the absolute path of the running binary.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

// Toggle flips the registration for exe and returns the new state.
func Toggle(exe string) (bool, error) {
	on, err := Enabled()
	if err != nil {
		return false, err
	}
	if on {
		return false, Disable()
	}
	return true, Enable(exe)
}
