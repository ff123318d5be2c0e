// Package buttons turns polled button state into press and release events.
package buttons

import (
	"context"
	"time"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/logging"
)

// DefaultInterval is how often the soft buttons are sampled.
const DefaultInterval = 100 * time.Millisecond

// Event is a change of one button's state.
type Event struct {
	Button  int
	Pressed bool
}

// State is a snapshot of every button.
type State [lcd.Buttons]bool

// Edges remembers the previous snapshot. The zero value starts with all
// buttons released.
type Edges struct {
	prev State
}

// Observe records s and returns the buttons that changed since the previous
// call, in button order. A button held across calls yields no events.
func (e *Edges) Observe(s State) []Event {
	var events []Event
	for i := range s {
		if s[i] != e.prev[i] {
			events = append(events, Event{Button: i, Pressed: s[i]})
		}
	}
	e.prev = s
	return events
}

// Handler reacts to button events.
type Handler interface {
	HandleButton(ctx context.Context, ev Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev Event)

func (f HandlerFunc) HandleButton(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// Poller samples an lcd.Input on a fixed interval.
type Poller struct {
	Input    lcd.Input
	Handler  Handler
	Interval time.Duration
	Logger   *logging.Logger

	edges Edges
}

// Poll samples the input once and dispatches any edges.
func (p *Poller) Poll(ctx context.Context) {
	var s State
	for i := range s {
		s[i] = p.Input.Pressed(i)
	}
	for _, ev := range p.edges.Observe(s) {
		if p.Logger != nil {
			p.Logger.Debug().Int("button", ev.Button).Bool("pressed", ev.Pressed).Msg("Button")
		}
		p.Handler.HandleButton(ctx, ev)
	}
}

// Run polls until ctx is done and returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.Poll(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
