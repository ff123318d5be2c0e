// Package notify shows the applet's desktop messages.
// It uses github.com/gen2brain/beeep, which maps to toast notifications on Windows.
package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/n0rule/nanachi/internal/logging"
)

// Messages shown to the user.
const (
	AppName       = "Nanachi Applet"
	Version       = "0.1.0"
	Author        = "N0rule"
	Homepage      = "https://n0rule.is-a.dev/"
	DeviceMissing = "Failed to find monochrome keyboard."
	AutostartOn   = "Autostart enabled!"
	AutostartOff  = "Autostart disabled!"
)

// AboutText is the body of the About message.
const AboutText = AppName + " v" + Version + "\nCreated by " + Author + "\n" + Homepage

// Sender delivers a message.
type Sender func(title, message, icon string) error

// Notifier sends the applet's messages and logs delivery failures.
type Notifier struct {
	logger *logging.Logger
	notify Sender
	alert  Sender
}

// New returns a Notifier backed by beeep.
func New(logger *logging.Logger) *Notifier {
	return NewWithSenders(logger,
		func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		func(title, message, icon string) error { return beeep.Alert(title, message, icon) },
	)
}

// NewWithSenders returns a Notifier with custom delivery.
func NewWithSenders(logger *logging.Logger, notify, alert Sender) *Notifier {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Notifier{logger: logger, notify: notify, alert: alert}
}

// About shows the version and author.
func (n *Notifier) About() {
	n.send(n.notify, AppName, AboutText)
}

// Autostart confirms a change of the autostart setting.
func (n *Notifier) Autostart(enabled bool) {
	msg := AutostartOff
	if enabled {
		msg = AutostartOn
	}
	n.send(n.notify, AppName, msg)
}

// Alert shows a prominent error message.
func (n *Notifier) Alert(message string) {
	if err := n.alert(AppName, message, ""); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send alert, falling back to notification")
		n.send(n.notify, AppName, message)
	}
}

func (n *Notifier) send(s Sender, title, message string) {
	if err := s(title, message, ""); err != nil {
		n.logger.Warn().Err(err).Str("title", title).Msg("Failed to send notification")
	}
}
