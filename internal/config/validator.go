package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	switch cfg.Backend {
	case BackendG15, BackendOLED, BackendHeadless:
	default:
		return fmt.Errorf("backend must be one of %s, %s, %s; got %q",
			BackendG15, BackendOLED, BackendHeadless, cfg.Backend)
	}

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0")
	}
	if cfg.ClockInterval <= 0 {
		return fmt.Errorf("clock_interval must be > 0")
	}
	if cfg.CycleGap < 0 {
		return fmt.Errorf("cycle_gap must be >= 0")
	}
	if len(cfg.TextLines) > 2 {
		return fmt.Errorf("text_lines holds at most 2 lines, got %d", len(cfg.TextLines))
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if _, err := cfg.Table(); err != nil {
		return fmt.Errorf("expressions: %w", err)
	}
	if _, err := cfg.FaceAssets(); err != nil {
		return fmt.Errorf("assets: %w", err)
	}

	switch cfg.Backend {
	case BackendOLED:
		return validateOLED(&cfg.OLED)
	case BackendHeadless:
		if cfg.Headless.Width <= 0 || cfg.Headless.Height <= 0 {
			return fmt.Errorf("headless: invalid size %dx%d", cfg.Headless.Width, cfg.Headless.Height)
		}
	}
	return nil
}

func validateOLED(o *OLEDConfig) error {
	if o.DC == "" {
		return fmt.Errorf("oled.dc is required")
	}
	if o.Width <= 0 || o.Width%4 != 0 || o.Width > 480 {
		return fmt.Errorf("oled.width must be a multiple of 4 up to 480, got %d", o.Width)
	}
	if o.Height <= 0 || o.Height > 128 {
		return fmt.Errorf("oled.height must be between 1 and 128, got %d", o.Height)
	}
	if o.Contrast < 0 || o.Contrast > 255 {
		return fmt.Errorf("oled.contrast must be between 0 and 255, got %d", o.Contrast)
	}
	if len(o.Buttons) > 4 {
		return fmt.Errorf("oled.buttons holds at most 4 pins, got %d", len(o.Buttons))
	}
	return nil
}
