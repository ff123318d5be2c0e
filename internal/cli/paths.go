package cli

import (
	"os"
	"path/filepath"

	"github.com/n0rule/nanachi/internal/autostart"
)

// installDir is the directory of the running binary. Windows starts autostart
// entries in another working directory, so relative paths fall back to it.
var installDir = func() string {
	exe, err := autostart.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// locate resolves a relative path against the working directory and then against
// installDir. ok is false when neither has it, and path is then returned as is.
func locate(path string) (string, bool) {
	if path == "" {
		return path, false
	}
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	if filepath.IsAbs(path) {
		return path, false
	}
	dir := installDir()
	if dir == "" {
		return path, false
	}
	alt := filepath.Join(dir, path)
	if _, err := os.Stat(alt); err != nil {
		return path, false
	}
	return alt, true
}
