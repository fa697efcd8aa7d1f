package director

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestKeyframeEqualIgnoresShift(t *testing.T) {
	base := Keyframe{MaxIterations: 100, X: -0.5, Y: 0.1, Radius: 1.5, ColorShift: 0}

	shifted := base
	shifted.ColorShift = 0.75
	if !base.Equal(shifted) {
		t.Error("keyframes differing only in color shift should be equal")
	}

	mutations := map[string]func(*Keyframe){
		"max_iterations": func(k *Keyframe) { k.MaxIterations++ },
		"x_pos":          func(k *Keyframe) { k.X += 1e-12 },
		"y_pos":          func(k *Keyframe) { k.Y -= 1e-12 },
		"radius":         func(k *Keyframe) { k.Radius *= 2 },
	}
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			other := base
			mutate(&other)
			if base.Equal(other) {
				t.Errorf("changing %s should break equality", field)
			}
		})
	}
}

func TestKeyframeValidate(t *testing.T) {
	tests := []struct {
		name    string
		kf      Keyframe
		wantErr bool
	}{
		{"valid", Keyframe{MaxIterations: 1, Radius: 0.001}, false},
		{"zero iterations", Keyframe{MaxIterations: 0, Radius: 1}, true},
		{"zero radius", Keyframe{MaxIterations: 10, Radius: 0}, true},
		{"negative radius", Keyframe{MaxIterations: 10, Radius: -1}, true},
		{"nan radius", Keyframe{MaxIterations: 10, Radius: math.NaN()}, true},
		{"infinite x", Keyframe{MaxIterations: 10, Radius: 1, X: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScenarioValidate(t *testing.T) {
	good := []Keyframe{{MaxIterations: 10, Radius: 1}, {MaxIterations: 20, Radius: 0.5}}

	tests := []struct {
		name string
		s    Scenario
		want string
	}{
		{"valid", Scenario{Frames: good, Transitions: []Transition{{From: 0, To: 1, Steps: 3}}}, ""},
		{"no transitions", Scenario{Frames: good}, "no transitions"},
		{"index out of range", Scenario{Frames: good, Transitions: []Transition{{From: 0, To: 2, Steps: 3}}}, "to_frame 2 out of range"},
		{"zero steps", Scenario{Frames: good, Transitions: []Transition{{From: 0, To: 1}}}, "steps must be at least 1"},
		{"bad keyframe", Scenario{
			Frames:      []Keyframe{{MaxIterations: 10, Radius: -1}, good[1]},
			Transitions: []Transition{{From: 0, To: 1, Steps: 3}},
		}, "frame 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestScenarioValidateEmpty(t *testing.T) {
	var s Scenario
	if err := s.Validate(); !errors.Is(err, ErrNoTransitions) {
		t.Errorf("Validate() = %v, want ErrNoTransitions", err)
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	if len(names) != 7 {
		t.Fatalf("got %d presets, want 7", len(names))
	}
	for _, name := range names {
		kf, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) failed: %v", name, err)
		}
		if err := kf.Validate(); err != nil {
			t.Errorf("Preset(%q) is invalid: %v", name, err)
		}
	}

	kf, _ := Preset("seahorse_valley")
	if math.Abs(kf.X+0.75) > 1e-12 || math.Abs(kf.Y-0.1) > 1e-12 || math.Abs(kf.Radius-0.05) > 1e-12 {
		t.Errorf("seahorse_valley = %v", kf)
	}

	if _, err := Preset("atlantis"); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}
