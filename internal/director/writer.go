package director

import (
	"fmt"

	"github.com/ivlev/fractal2video/internal/config"
)

// WriteScenario writes a scenario to a YAML or TOML file, chosen by extension.
func WriteScenario(scenario *Scenario, path string) error {
	return config.EncodeFile(path, scenario)
}

// ReadScenario reads and validates a scenario from a YAML or TOML file.
func ReadScenario(path string) (*Scenario, error) {
	var scenario Scenario
	if err := config.DecodeFile(path, &scenario); err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}
