package applet

import (
	"context"

	"github.com/n0rule/nanachi/internal/buttons"
	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/logging"
)

// Button assignments.
const (
	ButtonStare  = 0
	ButtonClock  = 1
	ButtonText   = 2
	ButtonUnused = 3
)

// Starer is the part of the animator the buttons drive.
type Starer interface {
	Stare(ctx context.Context)
	Release(ctx context.Context)
}

// Actions maps button edges to applet behaviour. Button 0 holds the stare,
// buttons 1 and 2 toggle the clock and face text on press.
type Actions struct {
	Face     Starer
	Settings *lcd.DisplaySettings
	Logger   *logging.Logger
}

var _ buttons.Handler = (*Actions)(nil)

// HandleButton implements buttons.Handler.
func (a *Actions) HandleButton(ctx context.Context, ev buttons.Event) {
	switch ev.Button {
	case ButtonStare:
		if ev.Pressed {
			a.Face.Stare(ctx)
		} else {
			a.Face.Release(ctx)
		}
	case ButtonClock:
		if ev.Pressed {
			v := a.Settings.ToggleClock()
			a.log().Info().Bool("visible", v).Msg("Clock toggled")
		}
	case ButtonText:
		if ev.Pressed {
			v := a.Settings.ToggleText()
			a.log().Info().Bool("visible", v).Msg("Text toggled")
		}
	}
}

func (a *Actions) log() *logging.Logger {
	if a.Logger == nil {
		return logging.Nop()
	}
	return a.Logger
}
