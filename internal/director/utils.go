package director

import (
	"fmt"
	"os"
	"path/filepath"
)

// scenarioNames are tried in order when no scenario path is given.
var scenarioNames = []string{"frames.yaml", "frames.yml", "frames.toml"}

// FindScenario looks for a default scenario file in dir.
func FindScenario(dir string) (string, error) {
	for _, name := range scenarioNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no scenario file found in %s (tried %v)", dir, scenarioNames)
}
