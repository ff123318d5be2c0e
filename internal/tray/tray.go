// Package tray puts the applet in the notification area with About, Autostart
// and Exit entries. The menu only exists on Windows; elsewhere Run just waits.
package tray

import (
	"context"

	"github.com/n0rule/nanachi/internal/autostart"
	"github.com/n0rule/nanachi/internal/logging"
	"github.com/n0rule/nanachi/internal/notify"
)

// Menu labels.
const (
	labelAbout            = "About"
	labelEnableAutostart  = "Enable Autostart"
	labelDisableAutostart = "Disable Autostart"
	labelExit             = "Exit"
)

// Options configures the tray.
type Options struct {
	Notifier *notify.Notifier
	Logger   *logging.Logger
	// Exe is registered for autostart; empty means the running binary.
	Exe string
	// Quit is called when Exit is chosen.
	Quit func()
}

// Tray holds the menu state shared by the platform implementations.
type Tray struct {
	notifier  *notify.Notifier
	logger    *logging.Logger
	exe       string
	quit      func()
	autostart bool

	enabled func() (bool, error)
	toggle  func(exe string) (bool, error)
}

// New prepares a tray. The autostart entry reflects the registration at this
// point.
func New(opts Options) *Tray {
	t := &Tray{
		notifier: opts.Notifier,
		logger:   opts.Logger,
		exe:      opts.Exe,
		quit:     opts.Quit,
		enabled:  autostart.Enabled,
		toggle:   autostart.Toggle,
	}
	if t.logger == nil {
		t.logger = logging.Nop()
	}
	if t.notifier == nil {
		t.notifier = notify.New(t.logger)
	}
	if t.quit == nil {
		t.quit = func() {}
	}
	t.refresh()
	return t
}

func (t *Tray) refresh() {
	on, err := t.enabled()
	if err != nil {
		t.logger.Debug().Err(err).Msg("Autostart state unknown")
	}
	t.autostart = on
}

func (t *Tray) autostartLabel() string {
	if t.autostart {
		return labelDisableAutostart
	}
	return labelEnableAutostart
}

func (t *Tray) about() {
	t.notifier.About()
}

// toggleAutostart flips the registration and returns the new menu label.
func (t *Tray) toggleAutostart() string {
	exe := t.exe
	if exe == "" {
		var err error
		if exe, err = autostart.Executable(); err != nil {
			t.logger.Error().Err(err).Msg("Cannot locate executable for autostart")
			return t.autostartLabel()
		}
	}

	on, err := t.toggle(exe)
	if err != nil {
		t.logger.Error().Err(err).Msg("Failed to change autostart")
		t.notifier.Alert(err.Error())
		return t.autostartLabel()
	}
	t.autostart = on
	t.logger.Info().Bool("enabled", on).Str("exe", exe).Msg("Autostart changed")
	t.notifier.Autostart(on)
	return t.autostartLabel()
}

func (t *Tray) exit() {
	t.logger.Info().Msg("Exit chosen from tray")
	t.quit()
}

// Run shows the tray until ctx is done or Exit is chosen.
func (t *Tray) Run(ctx context.Context) {
	t.run(ctx)
}
