package lcd

import "go.uber.org/atomic"

// DisplaySettings holds the visibility flags toggled by the buttons and read by the
// clock/text refresher. It is safe for concurrent use.
type DisplaySettings struct {
	clock atomic.Bool
	text  atomic.Bool
}

// NewDisplaySettings returns settings with the given initial visibility.
func NewDisplaySettings(showClock, showText bool) *DisplaySettings {
	s := &DisplaySettings{}
	s.clock.Store(showClock)
	s.text.Store(showText)
	return s
}

// ShowClock reports whether the date and time lines are visible.
func (s *DisplaySettings) ShowClock() bool {
	return s.clock.Load()
}

// ShowText reports whether the face text lines are visible.
func (s *DisplaySettings) ShowText() bool {
	return s.text.Load()
}

// ToggleClock flips clock visibility and returns the new value.
func (s *DisplaySettings) ToggleClock() bool {
	return !s.clock.Toggle()
}

// ToggleText flips text visibility and returns the new value.
func (s *DisplaySettings) ToggleText() bool {
	return !s.text.Toggle()
}
