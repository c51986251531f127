package loader

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type lineEntry struct {
	LineID   string `yaml:"line_id"`
	Name     string `yaml:"name"`
	LineName string `yaml:"line_name"`
	Eligible bool   `yaml:"eligible"`
}

type linesDocument struct {
	FreepassLines []lineEntry `yaml:"freepass_lines"`
}

// loadLines returns the display name of every listed line and the sorted ids
// of the lines the pass is valid on.
func loadLines(path string) (map[string]string, []string, error) {
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("%s not found: %w", LinesFile, ErrNoEligibleLines)
	} else if err != nil {
		return nil, nil, err
	}

	var document linesDocument
	if err := yaml.Unmarshal(body, &document); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", LinesFile, err)
	}

	names := map[string]string{}
	var eligible []string
	for _, entry := range document.FreepassLines {
		if entry.LineID == "" {
			continue
		}

		name := entry.Name
		if name == "" {
			name = entry.LineName
		}
		if name == "" {
			name = entry.LineID
		}
		names[entry.LineID] = name

		if entry.Eligible && !slices.Contains(eligible, entry.LineID) {
			eligible = append(eligible, entry.LineID)
		}
	}

	if len(eligible) == 0 {
		return nil, nil, ErrNoEligibleLines
	}
	slices.Sort(eligible)

	return names, eligible, nil
}
