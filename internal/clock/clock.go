// Package clock keeps the panel's text lines current: the date and time on lines 0
// and 1, and the face text on lines 2 and 3.
package clock

import (
	"context"
	"time"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/logging"
)

// DefaultInterval is the refresh period.
const DefaultInterval = 100 * time.Millisecond

const (
	dateLayout = "02.01.2006"
	timeLayout = "3:04:05"
)

// Lines formats t as a DD.MM.YYYY date line and a 12-hour H:MM:SS time line.
func Lines(t time.Time) (date, clock string) {
	return t.Format(dateLayout), t.Format(timeLayout)
}

// Refresher rewrites the text layer on every tick.
type Refresher struct {
	Display  *lcd.Locked
	Settings *lcd.DisplaySettings
	Text     [2]string
	Interval time.Duration
	Now      func() time.Time
	Logger   *logging.Logger
}

// Tick writes all four lines and updates the panel once.
func (r *Refresher) Tick() error {
	var lines [lcd.Lines]string
	if r.Settings.ShowClock() {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		lines[0], lines[1] = Lines(now())
	}
	if r.Settings.ShowText() {
		lines[2], lines[3] = r.Text[0], r.Text[1]
	}

	return r.Display.Do(func(d lcd.Display) error {
		for i, s := range lines {
			if err := d.SetText(i, s); err != nil {
				return err
			}
		}
		return d.Update()
	})
}

// Run refreshes until ctx is done and returns ctx.Err(). Failed ticks are logged
// and retried on the next one.
func (r *Refresher) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failing := false
	for {
		if err := r.Tick(); err != nil {
			// Log the first failure of a streak only; this loop runs ten times a second.
			if !failing {
				logger.Warn().Err(err).Msg("Failed to refresh text")
			}
			failing = true
		} else if failing {
			logger.Info().Msg("Text refresh recovered")
			failing = false
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
