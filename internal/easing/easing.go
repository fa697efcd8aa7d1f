// Package easing provides the named time-remapping functions used when
// interpolating between keyframes.
package easing

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects an easing function. The set is closed; values are resolved
// from their names once, when the configuration is loaded.
type Kind int

const (
	Linear Kind = iota
	InOutQuart
	InOutCubic
	InSine
	InOutSine
	OutSine
)

var names = [...]string{
	Linear:     "linear",
	InOutQuart: "in_out_quart",
	InOutCubic: "in_out_cubic",
	InSine:     "in_sine",
	InOutSine:  "in_out_sine",
	OutSine:    "out_sine",
}

// Kinds returns every easing in declaration order.
func Kinds() []Kind {
	return []Kind{Linear, InOutQuart, InOutCubic, InSine, InOutSine, OutSine}
}

// Parse resolves an easing by name. Matching ignores case, underscores and
// dashes, so "in_out_quart", "in-out-quart" and "InOutQuart" are the same.
func Parse(name string) (Kind, error) {
	key := normalize(name)
	for k, n := range names {
		if normalize(n) == key {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation type: %q", name)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(names) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

// Apply remaps t in [0, 1]. The result is not clamped.
func (k Kind) Apply(t float64) float64 {
	switch k {
	case InOutQuart:
		if t < 0.5 {
			return 8 * t * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u*u/2
	case InOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	case InSine:
		return 1 - math.Cos(t*math.Pi/2)
	case InOutSine:
		return -(math.Cos(t*math.Pi) - 1) / 2
	case OutSine:
		return math.Sin(t * math.Pi / 2)
	default:
		return t
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(names) {
		return nil, fmt.Errorf("invalid easing kind %d", int(k))
	}
	return []byte(names[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
