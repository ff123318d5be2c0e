package face

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"time"

	"github.com/n0rule/nanachi"
	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/logging"
	"github.com/n0rule/nanachi/monoframe"
)

// Assets maps expressions to image files named <Dir>/<name>.png.
type Assets struct {
	Dir   string
	Names map[Expression]string
}

// DefaultAssets are the files shipped in res/.
func DefaultAssets() Assets {
	return Assets{
		Dir: "res",
		Names: map[Expression]string{
			Idle:         "nanachi",
			Blinking:     "nanachi_blink",
			LookingLeft:  "nanachi_lookleft",
			LookingRight: "nanachi_lookright",
			Staring:      "nanachi_stare",
		},
	}
}

// Path returns the file for e.
func (a Assets) Path(e Expression) string {
	return filepath.Join(a.Dir, a.Names[e]+".png")
}

// Loader produces the frame for an asset path.
type Loader func(path string) (*monoframe.Frame, error)

// FileLoader loads assets from disk for a display of the given size.
func FileLoader(width, height int) Loader {
	return func(path string) (*monoframe.Frame, error) {
		return nanachi.LoadFrame(path, width, height)
	}
}

// retryDelay paces new attempts at the stare face while the display rejects it.
const retryDelay = 100 * time.Millisecond

// Options configures an Animator. Zero fields take defaults.
type Options struct {
	Table  Table
	Assets Assets
	// Gap is added after every hold before the next draw.
	Gap    time.Duration
	Rand   *rand.Rand
	Load   Loader
	Logger *logging.Logger
}

// Animator cycles expressions on a display. Stare and Release may be called from
// any goroutine while Run is active.
type Animator struct {
	display   *lcd.Locked
	table     Table
	assets    Assets
	gap       time.Duration
	rng       *rand.Rand
	load      Loader
	logger    *logging.Logger
	overrides chan bool

	mu      sync.Mutex
	current Expression
	shown   bool
}

// New creates an animator for display.
func New(display *lcd.Locked, opts Options) (*Animator, error) {
	if opts.Table == nil {
		opts.Table = DefaultTable
	}
	if err := opts.Table.Validate(); err != nil {
		return nil, err
	}
	if opts.Assets.Names == nil {
		opts.Assets = DefaultAssets()
	}
	for _, e := range []Expression{Idle, Staring} {
		if opts.Assets.Names[e] == "" {
			return nil, errors.New("face: no asset for " + e.String())
		}
	}
	for _, r := range opts.Table {
		if opts.Assets.Names[r.Expression] == "" {
			return nil, errors.New("face: no asset for " + r.Expression.String())
		}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6e616e61))
	}
	if opts.Load == nil {
		b := display.Bounds()
		opts.Load = FileLoader(b.Dx(), b.Dy())
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	return &Animator{
		display:   display,
		table:     opts.Table,
		assets:    opts.Assets,
		gap:       opts.Gap,
		rng:       opts.Rand,
		load:      opts.Load,
		logger:    opts.Logger,
		overrides: make(chan bool, 8),
	}, nil
}

// Current returns the expression on screen. ok is false until the first frame
// has been shown.
func (a *Animator) Current() (e Expression, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, a.shown
}

// Stare forces the stare expression until Release.
func (a *Animator) Stare(ctx context.Context) {
	a.override(ctx, true)
}

// Release ends a stare; the idle face is shown and normal cycling resumes.
func (a *Animator) Release(ctx context.Context) {
	a.override(ctx, false)
}

func (a *Animator) override(ctx context.Context, on bool) {
	select {
	case a.overrides <- on:
	case <-ctx.Done():
	}
}

// Run animates until ctx is done and returns ctx.Err().
func (a *Animator) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	staring := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case on := <-a.overrides:
			if on == staring {
				continue
			}
			staring = on
			if staring {
				timer.Stop()
				if !a.show(Staring) {
					timer.Reset(retryDelay)
				}
				continue
			}
			a.show(Idle)
			var hold time.Duration
			if r, ok := a.table.Rule(Idle); ok {
				hold = r.Hold(a.rng)
			}
			timer.Reset(hold + a.gap)

		case <-timer.C:
			if staring {
				if !a.show(Staring) {
					timer.Reset(retryDelay)
				}
				continue
			}
			c := a.table.Next(a.rng)
			a.logger.Debug().Stringer("expression", c.Expression).Dur("hold", c.Hold).Msg("Next expression")
			a.show(c.Expression)
			timer.Reset(c.Hold + a.gap)
		}
	}
}

// show pushes the artwork for e and reports whether a frame reached the display.
// A broken asset falls back to the idle face, and when that fails too the previous
// frame stays on screen. Display errors are logged and the next cycle tries again.
func (a *Animator) show(e Expression) bool {
	path := a.assets.Path(e)
	f, err := a.load(path)
	if err != nil {
		a.logger.Warn().Err(err).Stringer("expression", e).Str("asset", path).Msg("Failed to load expression")
		if e == Idle {
			return false
		}
		path = a.assets.Path(Idle)
		if f, err = a.load(path); err != nil {
			a.logger.Warn().Err(err).Str("asset", path).Msg("Idle fallback failed, keeping previous frame")
			return false
		}
		e = Idle
	}

	if err := a.display.Show(f); err != nil {
		a.logger.Warn().Err(err).Stringer("expression", e).Msg("Display rejected frame")
		return false
	}

	a.mu.Lock()
	a.current, a.shown = e, true
	a.mu.Unlock()
	return true
}
