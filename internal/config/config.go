// Package config loads the applet configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/n0rule/nanachi/internal/face"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "nanachi.yaml"

// Backends.
const (
	BackendG15      = "g15"
	BackendOLED     = "oled"
	BackendHeadless = "headless"
)

// Config represents the complete applet configuration
type Config struct {
	Backend       string             `yaml:"backend"` // g15, oled, headless
	Assets        AssetsConfig       `yaml:"assets"`
	Expressions   []ExpressionConfig `yaml:"expressions,omitempty"` // replaces the built-in table when set
	PollInterval  Duration           `yaml:"poll_interval"`
	ClockInterval Duration           `yaml:"clock_interval"`
	CycleGap      Duration           `yaml:"cycle_gap"` // pause after every hold
	ShowClock     bool               `yaml:"show_clock"`
	ShowText      bool               `yaml:"show_text"`
	TextLines     []string           `yaml:"text_lines"` // at most two
	Seed          uint64             `yaml:"seed"`       // 0 seeds from the clock
	Log           LogConfig          `yaml:"log"`
	G15           G15Config          `yaml:"g15"`
	OLED          OLEDConfig         `yaml:"oled"`
	Headless      HeadlessConfig     `yaml:"headless"`
}

// AssetsConfig locates the expression images.
type AssetsConfig struct {
	Dir   string            `yaml:"dir"`
	Files map[string]string `yaml:"files,omitempty"` // expression name -> file stem
}

// ExpressionConfig is one row of the probability table.
type ExpressionConfig struct {
	Name    string   `yaml:"name"`
	Weight  int      `yaml:"weight"`
	MinHold Duration `yaml:"min_hold"`
	MaxHold Duration `yaml:"max_hold"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // rotated JSON log, empty for none
}

// G15Config selects a keyboard.
type G15Config struct {
	Product uint16 `yaml:"product"` // USB product id, 0 for the first supported
}

// OLEDConfig describes a SSD1322 panel wired to SPI and GPIO.
type OLEDConfig struct {
	SPI      string   `yaml:"spi"` // periph port name, empty for the first
	DC       string   `yaml:"dc"`
	RST      string   `yaml:"rst"`
	Buttons  []string `yaml:"buttons"` // up to four GPIO names
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	Contrast int      `yaml:"contrast"` // 0 for maximum
	Invert   bool     `yaml:"invert"`
	Rotated  bool     `yaml:"rotated"`
}

// HeadlessConfig contains the snapshot display settings
type HeadlessConfig struct {
	Snapshot string `yaml:"snapshot"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

// Duration is a time.Duration written as a Go duration string ("100ms", "2s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Backend:       BackendG15,
		Assets:        AssetsConfig{Dir: "res"},
		PollInterval:  Duration(100 * time.Millisecond),
		ClockInterval: Duration(100 * time.Millisecond),
		CycleGap:      Duration(100 * time.Millisecond),
		ShowClock:     true,
		ShowText:      true,
		TextLines:     []string{"Nanachi", "N0rule"},
		Log:           LogConfig{Level: "info"},
		OLED: OLEDConfig{
			DC:     "GPIO25",
			Width:  160,
			Height: 43,
		},
		Headless: HeadlessConfig{
			Snapshot: "nanachi.png",
			Width:    160,
			Height:   43,
		},
	}
}

// Load reads and parses a YAML configuration file. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or DefaultFile when path is empty. A missing
// DefaultFile is not an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Table returns the expression table, the built-in one when none is configured.
func (c *Config) Table() (face.Table, error) {
	if len(c.Expressions) == 0 {
		return face.DefaultTable, nil
	}
	t := make(face.Table, 0, len(c.Expressions))
	for _, e := range c.Expressions {
		expr, err := face.ParseExpression(e.Name)
		if err != nil {
			return nil, err
		}
		t = append(t, face.Rule{
			Expression: expr,
			Weight:     e.Weight,
			MinHold:    e.MinHold.Std(),
			MaxHold:    e.MaxHold.Std(),
		})
	}
	return t, t.Validate()
}

// FaceAssets returns the asset locations with configured overrides applied.
func (c *Config) FaceAssets() (face.Assets, error) {
	a := face.DefaultAssets()
	if c.Assets.Dir != "" {
		a.Dir = c.Assets.Dir
	}
	for name, stem := range c.Assets.Files {
		e, err := face.ParseExpression(name)
		if err != nil {
			return face.Assets{}, err
		}
		a.Names[e] = stem
	}
	return a, nil
}

// Text returns the two face text lines.
func (c *Config) Text() [2]string {
	var t [2]string
	copy(t[:], c.TextLines)
	return t
}
