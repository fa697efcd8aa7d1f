package director

import (
	"errors"
	"fmt"

	"github.com/ivlev/fractal2video/internal/easing"
)

// Scenario is the keyframe document: named viewports and the transitions that
// animate between them. Transitions reference frames by index.
type Scenario struct {
	Frames      []Keyframe   `yaml:"frames" toml:"frames"`
	Transitions []Transition `yaml:"transitions" toml:"transitions"`
}

// Transition expands two keyframes into Steps in-between frames.
type Transition struct {
	From   int         `yaml:"from_frame" toml:"from_frame"`
	To     int         `yaml:"to_frame" toml:"to_frame"`
	Easing easing.Kind `yaml:"interpolation_type" toml:"interpolation_type"`
	Steps  int         `yaml:"steps" toml:"steps"`
}

// ErrNoTransitions is returned by Validate for a scenario that would produce
// an empty video.
var ErrNoTransitions = errors.New("scenario declares no transitions")

// Validate reports every configuration error in the scenario: bad keyframes,
// transition indices outside the frame list and step counts below 1.
func (s *Scenario) Validate() error {
	var errs []error
	for i, f := range s.Frames {
		if err := f.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("frame %d: %w", i, err))
		}
	}
	if len(s.Transitions) == 0 {
		errs = append(errs, ErrNoTransitions)
	}
	for i, tr := range s.Transitions {
		if err := tr.validate(len(s.Frames)); err != nil {
			errs = append(errs, fmt.Errorf("transition %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (tr Transition) validate(frameCount int) error {
	if tr.From < 0 || tr.From >= frameCount {
		return fmt.Errorf("from_frame %d out of range [0, %d)", tr.From, frameCount)
	}
	if tr.To < 0 || tr.To >= frameCount {
		return fmt.Errorf("to_frame %d out of range [0, %d)", tr.To, frameCount)
	}
	if tr.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", tr.Steps)
	}
	return nil
}

// TotalSteps is the number of frames Sequence will produce.
func (s *Scenario) TotalSteps() int {
	n := 0
	for _, tr := range s.Transitions {
		n += tr.Steps
	}
	return n
}
