package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/n0rule/nanachi/internal/face"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nanachi.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()) error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
backend: headless
assets:
  dir: art
  files:
    stare: angry
poll_interval: 50ms
cycle_gap: 0s
show_clock: false
text_lines: ["Hello"]
seed: 42
log:
  level: debug
  file: nanachi.log
g15:
  product: 0xc227
headless:
  snapshot: out.png
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend != BackendHeadless {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.PollInterval.Std() != 50*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval.Std())
	}
	if cfg.CycleGap != 0 {
		t.Errorf("CycleGap = %v, want 0", cfg.CycleGap.Std())
	}
	// Keys absent from the file keep their defaults.
	if cfg.ClockInterval.Std() != 100*time.Millisecond {
		t.Errorf("ClockInterval = %v, want the default", cfg.ClockInterval.Std())
	}
	if !cfg.ShowText || cfg.ShowClock {
		t.Errorf("ShowClock, ShowText = %v, %v", cfg.ShowClock, cfg.ShowText)
	}
	if cfg.Text() != [2]string{"Hello", ""} {
		t.Errorf("Text() = %q", cfg.Text())
	}
	if cfg.Seed != 42 || cfg.G15.Product != 0xc227 {
		t.Errorf("Seed, Product = %d, %#x", cfg.Seed, cfg.G15.Product)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "nanachi.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Headless.Snapshot != "out.png" || cfg.Headless.Width != 160 {
		t.Errorf("Headless = %+v", cfg.Headless)
	}

	a, err := cfg.FaceAssets()
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Path(face.Staring); got != filepath.Join("art", "angry.png") {
		t.Errorf("stare asset = %q", got)
	}
	if got := a.Path(face.Idle); got != filepath.Join("art", "nanachi.png") {
		t.Errorf("idle asset = %q", got)
	}
}

func TestLoadExpressions(t *testing.T) {
	path := writeConfig(t, `
expressions:
  - name: blink
    weight: 1
    min_hold: 100ms
    max_hold: 200ms
  - name: idle
    weight: 3
    min_hold: 1s
    max_hold: 5s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	table, err := cfg.Table()
	if err != nil {
		t.Fatal(err)
	}
	want := face.Table{
		{Expression: face.Blinking, Weight: 1, MinHold: 100 * time.Millisecond, MaxHold: 200 * time.Millisecond},
		{Expression: face.Idle, Weight: 3, MinHold: time.Second, MaxHold: 5 * time.Second},
	}
	if len(table) != len(want) {
		t.Fatalf("Table() = %v, want %v", table, want)
	}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("rule %d = %+v, want %+v", i, table[i], want[i])
		}
	}
}

func TestDefaultTable(t *testing.T) {
	table, err := Default().Table()
	if err != nil {
		t.Fatal(err)
	}
	if table.Total() != 100 || len(table) != 4 {
		t.Errorf("default table = %v", table)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown backend", "backend: lcd9000", "backend"},
		{"bad duration", "poll_interval: soon", "parse"},
		{"zero poll", "poll_interval: 0s", "poll_interval"},
		{"negative gap", "cycle_gap: -1s", "cycle_gap"},
		{"three lines", `text_lines: [a, b, c]`, "text_lines"},
		{"log level", "log: {level: loud}", "log.level"},
		{"unknown expression", "expressions: [{name: wink, weight: 1, min_hold: 1s, max_hold: 2s}]", "expressions"},
		{"stare in table", "expressions: [{name: stare, weight: 1, min_hold: 1s, max_hold: 2s}]", "expressions"},
		{"bad hold range", "expressions: [{name: idle, weight: 1, min_hold: 2s, max_hold: 1s}]", "expressions"},
		{"unknown asset", "assets: {files: {wink: x}}", "assets"},
		{"oled width", "backend: oled\noled: {width: 250}", "oled.width"},
		{"oled dc", "backend: oled\noled: {dc: ''}", "oled.dc"},
		{"oled contrast", "backend: oled\noled: {contrast: 300}", "oled.contrast"},
		{"oled buttons", "backend: oled\noled: {buttons: [a, b, c, d, e]}", "oled.buttons"},
		{"headless size", "backend: headless\nheadless: {width: 0}", "headless"},
		{"not yaml", "backend: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Backend != BackendG15 {
		t.Errorf("Backend = %q, want the default", cfg.Backend)
	}

	if _, err := LoadOrDefault("missing.yaml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("explicit missing file error = %v, want ErrNotExist", err)
	}

	if err := os.WriteFile(DefaultFile, []byte("backend: headless\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendHeadless {
		t.Errorf("Backend = %q, want the file's value", cfg.Backend)
	}
}
