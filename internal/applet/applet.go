// Package applet runs the face animator, the text refresher and the button poller
// against one device until the context is cancelled.
package applet

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/n0rule/nanachi/internal/buttons"
	"github.com/n0rule/nanachi/internal/clock"
	"github.com/n0rule/nanachi/internal/face"
	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/logging"
)

// Options configures an Applet. Zero fields take the package defaults.
type Options struct {
	Table         face.Table
	Assets        face.Assets
	Load          face.Loader
	Gap           time.Duration
	Seed          uint64
	PollInterval  time.Duration
	ClockInterval time.Duration
	ShowClock     bool
	ShowText      bool
	Text          [2]string
	Logger        *logging.Logger
}

// Applet owns the three loops sharing a device.
type Applet struct {
	device   lcd.Device
	display  *lcd.Locked
	settings *lcd.DisplaySettings
	face     *face.Animator
	clock    *clock.Refresher
	poller   *buttons.Poller
	logger   *logging.Logger
}

// New wires the loops for device. The device is not closed by the applet.
func New(device lcd.Device, opts Options) (*Applet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	display := lcd.NewLocked(device)
	settings := lcd.NewDisplaySettings(opts.ShowClock, opts.ShowText)

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}
	animator, err := face.New(display, face.Options{
		Table:  opts.Table,
		Assets: opts.Assets,
		Gap:    opts.Gap,
		Rand:   rng,
		Load:   opts.Load,
		Logger: logger.Named("face"),
	})
	if err != nil {
		return nil, err
	}

	a := &Applet{
		device:   device,
		display:  display,
		settings: settings,
		face:     animator,
		logger:   logger,
	}
	a.clock = &clock.Refresher{
		Display:  display,
		Settings: settings,
		Text:     opts.Text,
		Interval: opts.ClockInterval,
		Logger:   logger.Named("clock"),
	}
	a.poller = &buttons.Poller{
		Input: device,
		Handler: &Actions{
			Face:     animator,
			Settings: settings,
			Logger:   logger.Named("buttons"),
		},
		Interval: opts.PollInterval,
		Logger:   logger.Named("buttons"),
	}
	return a, nil
}

// Settings returns the shared visibility flags.
func (a *Applet) Settings() *lcd.DisplaySettings {
	return a.settings
}

// Face returns the animator.
func (a *Applet) Face() *face.Animator {
	return a.face
}

// Run starts the loops and blocks until ctx is done and all of them have returned.
func (a *Applet) Run(ctx context.Context) error {
	loops := []struct {
		name string
		run  func(context.Context) error
	}{
		{"face", a.face.Run},
		{"clock", a.clock.Run},
		{"buttons", a.poller.Run},
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(loops))
	for _, l := range loops {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.run(ctx)
			if err != nil && ctx.Err() == nil {
				a.logger.Error().Err(err).Str("loop", l.name).Msg("Loop stopped")
				errs <- err
				cancel()
			}
		}()
	}

	a.logger.Info().Stringer("size", a.display.Bounds().Size()).Msg("Applet running")
	wg.Wait()
	close(errs)

	// The loops only return on cancellation, so any other error wins.
	if err := <-errs; err != nil {
		return err
	}
	return ctx.Err()
}
