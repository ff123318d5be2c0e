// Package face animates the applet's face: it picks expressions from a weighted table,
// holds each for a random time and pushes the matching artwork to the display.
package face

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Expression is one of the face states.
type Expression int

const (
	Idle Expression = iota
	Blinking
	LookingLeft
	LookingRight
	// Staring is only entered while button 0 is held.
	Staring
)

var expressionNames = [...]string{
	Idle:         "idle",
	Blinking:     "blink",
	LookingLeft:  "look_left",
	LookingRight: "look_right",
	Staring:      "stare",
}

func (e Expression) String() string {
	if e < 0 || int(e) >= len(expressionNames) {
		return fmt.Sprintf("Expression(%d)", int(e))
	}
	return expressionNames[e]
}

// ParseExpression is the inverse of Expression.String.
func ParseExpression(s string) (Expression, error) {
	for i, n := range expressionNames {
		if n == s {
			return Expression(i), nil
		}
	}
	return 0, fmt.Errorf("face: unknown expression %q", s)
}

// Rule gives an expression a share of the draws and a hold range [MinHold, MaxHold).
type Rule struct {
	Expression Expression
	Weight     int
	MinHold    time.Duration
	MaxHold    time.Duration
}

// Table is an ordered list of rules. A draw r in [0, total weight) selects the first
// rule whose cumulative weight exceeds r.
type Table []Rule

// DefaultTable is the stock face: blink 35%, look left 20%, look right
// 20%, idle 25%.
var DefaultTable = Table{
	{Expression: Blinking, Weight: 35, MinHold: 250 * time.Millisecond, MaxHold: 1000 * time.Millisecond},
	{Expression: LookingLeft, Weight: 20, MinHold: 1000 * time.Millisecond, MaxHold: 3000 * time.Millisecond},
	{Expression: LookingRight, Weight: 20, MinHold: 1000 * time.Millisecond, MaxHold: 3000 * time.Millisecond},
	{Expression: Idle, Weight: 25, MinHold: 1000 * time.Millisecond, MaxHold: 15000 * time.Millisecond},
}

// Choice is the outcome of one draw.
type Choice struct {
	Expression Expression
	Hold       time.Duration
}

// Validate checks the table can be drawn from.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("face: empty expression table")
	}
	seen := make(map[Expression]bool, len(t))
	for _, r := range t {
		switch {
		case r.Expression == Staring:
			return errors.New("face: stare is reserved for the button override")
		case r.Expression < Idle || r.Expression > Staring:
			return fmt.Errorf("face: unknown expression %d", int(r.Expression))
		case seen[r.Expression]:
			return fmt.Errorf("face: %v listed twice", r.Expression)
		case r.Weight <= 0:
			return fmt.Errorf("face: %v has weight %d", r.Expression, r.Weight)
		case r.MinHold < time.Millisecond || r.MaxHold <= r.MinHold:
			return fmt.Errorf("face: %v hold range [%v, %v) is invalid", r.Expression, r.MinHold, r.MaxHold)
		}
		seen[r.Expression] = true
	}
	return nil
}

// Total returns the sum of the weights.
func (t Table) Total() int {
	n := 0
	for _, r := range t {
		n += r.Weight
	}
	return n
}

// Pick returns the rule selected by roll, which must be in [0, Total()).
func (t Table) Pick(roll int) Rule {
	for _, r := range t {
		if roll < r.Weight {
			return r
		}
		roll -= r.Weight
	}
	return t[len(t)-1]
}

// Rule returns the rule for e, if the table has one.
func (t Table) Rule(e Expression) (Rule, bool) {
	for _, r := range t {
		if r.Expression == e {
			return r, true
		}
	}
	return Rule{}, false
}

// Hold draws a duration in [MinHold, MaxHold) with millisecond granularity.
func (r Rule) Hold(rng *rand.Rand) time.Duration {
	span := int64((r.MaxHold - r.MinHold) / time.Millisecond)
	if span <= 0 {
		return r.MinHold
	}
	return r.MinHold + time.Duration(rng.Int64N(span))*time.Millisecond
}

// Next draws an expression and its hold time.
func (t Table) Next(rng *rand.Rand) Choice {
	r := t.Pick(rng.IntN(t.Total()))
	return Choice{Expression: r.Expression, Hold: r.Hold(rng)}
}
