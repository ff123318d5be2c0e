package face

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/internal/lcd/lcdtest"
	"github.com/n0rule/nanachi/monoframe"
)

const (
	w = 160
	h = 43
)

var allExpressions = []Expression{Idle, Blinking, LookingLeft, LookingRight, Staring}

// markedFrame lights pixel e so pushed frames can be traced back to an expression.
func markedFrame(e Expression) *monoframe.Frame {
	f := monoframe.New(image.Rect(0, 0, w, h))
	f.Pix[int(e)] = 0xFF
	return f
}

func expressionOf(t *testing.T, f *monoframe.Frame) Expression {
	t.Helper()
	for _, e := range allExpressions {
		if f.Pix[int(e)] == 0xFF {
			return e
		}
	}
	t.Fatal("pushed frame does not belong to any expression")
	return 0
}

// fakeLoader serves marked frames and fails for paths listed in broken.
func fakeLoader(assets Assets, broken ...Expression) Loader {
	bad := map[string]bool{}
	for _, e := range broken {
		bad[assets.Path(e)] = true
	}
	return func(path string) (*monoframe.Frame, error) {
		if bad[path] {
			return nil, os.ErrNotExist
		}
		for _, e := range allExpressions {
			if assets.Path(e) == path {
				return markedFrame(e), nil
			}
		}
		return nil, errors.New("unknown asset " + path)
	}
}

func nextPush(t *testing.T, d *lcdtest.Display) Expression {
	t.Helper()
	select {
	case f := <-d.Pushed():
		return expressionOf(t, f)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return 0
	}
}

func noPush(t *testing.T, d *lcdtest.Display, wait time.Duration) {
	t.Helper()
	select {
	case f := <-d.Pushed():
		t.Fatalf("unexpected frame for %v", expressionOf(t, f))
	case <-time.After(wait):
	}
}

// waitCurrent polls until the animator reports e. Current is recorded just
// after the frame reaches the display.
func waitCurrent(t *testing.T, a *Animator, e Expression) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := a.Current(); ok && got == e {
			return
		}
		time.Sleep(time.Millisecond)
	}
	got, ok := a.Current()
	t.Fatalf("Current() = %v, %v, want %v", got, ok, e)
}

func start(t *testing.T, a *Animator) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel, done
}

func TestAnimatorStareOverride(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	a, err := New(lcd.NewLocked(d), Options{
		Table: Table{
			{Expression: Blinking, Weight: 1, MinHold: time.Hour, MaxHold: 2 * time.Hour},
			{Expression: Idle, Weight: 1, MinHold: time.Hour, MaxHold: 2 * time.Hour},
		},
		Assets: assets,
		Rand:   rand.New(rand.NewPCG(1, 1)),
		Load:   fakeLoader(assets),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start(t, a)

	if got := nextPush(t, d); got != Blinking && got != Idle {
		t.Fatalf("first frame = %v, want blink or idle", got)
	}

	ctx := context.Background()
	a.Stare(ctx)
	if got := nextPush(t, d); got != Staring {
		t.Fatalf("frame after Stare = %v, want stare", got)
	}
	waitCurrent(t, a, Staring)

	// A repeated stare while already staring does nothing.
	a.Stare(ctx)
	noPush(t, d, 50*time.Millisecond)

	a.Release(ctx)
	if got := nextPush(t, d); got != Idle {
		t.Fatalf("frame after Release = %v, want idle", got)
	}
	waitCurrent(t, a, Idle)
}

func TestAnimatorStareSuspendsCycling(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	a, err := New(lcd.NewLocked(d), Options{
		Table: Table{
			{Expression: LookingLeft, Weight: 1, MinHold: time.Millisecond, MaxHold: 2 * time.Millisecond},
		},
		Assets: assets,
		Load:   fakeLoader(assets),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start(t, a)

	nextPush(t, d)
	a.Stare(context.Background())
	for {
		if nextPush(t, d) == Staring {
			break
		}
	}
	noPush(t, d, 50*time.Millisecond)
}

func TestAnimatorCycles(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	ms := time.Millisecond
	a, err := New(lcd.NewLocked(d), Options{
		Table: Table{
			{Expression: Blinking, Weight: 1, MinHold: ms, MaxHold: 2 * ms},
			{Expression: Idle, Weight: 1, MinHold: ms, MaxHold: 2 * ms},
		},
		Assets: assets,
		Rand:   rand.New(rand.NewPCG(7, 7)),
		Load:   fakeLoader(assets),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start(t, a)

	seen := map[Expression]bool{}
	for i := 0; i < 40 && len(seen) < 2; i++ {
		seen[nextPush(t, d)] = true
	}
	if !seen[Blinking] || !seen[Idle] {
		t.Errorf("saw %v, want both blink and idle", seen)
	}
	if d.Updates() == 0 {
		t.Error("display never updated")
	}
}

func TestAnimatorFallsBackToIdle(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	a, err := New(lcd.NewLocked(d), Options{
		Table: Table{
			{Expression: Blinking, Weight: 1, MinHold: time.Hour, MaxHold: 2 * time.Hour},
		},
		Assets: assets,
		Load:   fakeLoader(assets, Blinking),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start(t, a)

	if got := nextPush(t, d); got != Idle {
		t.Errorf("frame for a broken blink asset = %v, want idle", got)
	}
}

func TestAnimatorKeepsPreviousFrame(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	a, err := New(lcd.NewLocked(d), Options{
		Table: Table{
			{Expression: Blinking, Weight: 1, MinHold: time.Hour, MaxHold: 2 * time.Hour},
		},
		Assets: assets,
		Load:   fakeLoader(assets, Blinking, Idle),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start(t, a)

	// The stare asset still works, so it shows up.
	a.Stare(context.Background())
	if got := nextPush(t, d); got != Staring {
		t.Fatalf("frame after Stare = %v, want stare", got)
	}
	waitCurrent(t, a, Staring)

	// Releasing wants idle, which is broken: the stare frame stays.
	a.Release(context.Background())
	noPush(t, d, 50*time.Millisecond)
	if n := len(d.Backgrounds()); n != 1 {
		t.Errorf("%d backgrounds pushed, want 1", n)
	}
	if e, _ := a.Current(); e != Staring {
		t.Errorf("Current() = %v, want stare", e)
	}
}

func TestAnimatorRetriesAfterDeviceError(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	d.SetErr(&lcd.DeviceError{Op: "update", Err: errors.New("unplugged")})
	assets := DefaultAssets()
	ms := time.Millisecond
	a, err := New(lcd.NewLocked(d), Options{
		Table: Table{
			{Expression: Idle, Weight: 1, MinHold: ms, MaxHold: 2 * ms},
		},
		Assets: assets,
		Load:   fakeLoader(assets),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start(t, a)

	noPush(t, d, 30*time.Millisecond)
	if _, ok := a.Current(); ok {
		t.Error("Current() reports a frame while the device fails")
	}

	d.SetErr(nil)
	if got := nextPush(t, d); got != Idle {
		t.Errorf("frame after recovery = %v, want idle", got)
	}
}

func TestAnimatorRetriesStareAfterDeviceError(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	a, err := New(lcd.NewLocked(d), Options{
		Table: Table{
			{Expression: Idle, Weight: 1, MinHold: time.Hour, MaxHold: 2 * time.Hour},
		},
		Assets: assets,
		Load:   fakeLoader(assets),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start(t, a)

	if got := nextPush(t, d); got != Idle {
		t.Fatalf("first frame = %v, want idle", got)
	}
	waitCurrent(t, a, Idle)

	d.SetErr(&lcd.DeviceError{Op: "update", Err: errors.New("unplugged")})
	a.Stare(context.Background())
	noPush(t, d, 3*retryDelay)
	if got, _ := a.Current(); got != Idle {
		t.Fatalf("Current() = %v while the device fails, want idle", got)
	}

	// The button is still held; the stare face arrives once the device recovers.
	d.SetErr(nil)
	if got := nextPush(t, d); got != Staring {
		t.Fatalf("frame after recovery = %v, want stare", got)
	}
	waitCurrent(t, a, Staring)
	noPush(t, d, 3*retryDelay)
}

func TestAnimatorStopsOnCancel(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	a, err := New(lcd.NewLocked(d), Options{Assets: assets, Load: fakeLoader(assets)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	nextPush(t, d)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewRejectsMissingAssets(t *testing.T) {
	d := lcdtest.NewDisplay(w, h)
	assets := DefaultAssets()
	delete(assets.Names, LookingLeft)

	if _, err := New(lcd.NewLocked(d), Options{Assets: assets}); err == nil {
		t.Error("New() accepted a table entry without an asset")
	}

	if _, err := New(lcd.NewLocked(d), Options{Table: Table{}}); err == nil {
		t.Error("New() accepted an empty table")
	}
}

func TestFileLoader(t *testing.T) {
	load := FileLoader(w, h)
	if _, err := load("does/not/exist.png"); err == nil {
		t.Error("FileLoader returned no error for a missing file")
	}
}

func TestAssetsPath(t *testing.T) {
	a := DefaultAssets()
	want := map[Expression]string{
		Idle:         "res/nanachi.png",
		Blinking:     "res/nanachi_blink.png",
		LookingLeft:  "res/nanachi_lookleft.png",
		LookingRight: "res/nanachi_lookright.png",
		Staring:      "res/nanachi_stare.png",
	}
	for e, p := range want {
		if got := a.Path(e); got != filepath.FromSlash(p) {
			t.Errorf("Path(%v) = %q, want %q", e, got, p)
		}
	}
}
