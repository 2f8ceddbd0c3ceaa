package overrides

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

// Loader handles loading and parsing of the pricing overrides yaml file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given overrides file.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the overrides file into a service price map.
// An empty or absent overrides section yields an empty map, which clears
// every active override when applied.
func (l *Loader) Load() (map[domain.ServiceID]float64, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing overrides file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pricing overrides yaml: %w", err)
	}

	out := make(map[domain.ServiceID]float64, len(file.Overrides))
	for id, cost := range file.Overrides {
		out[domain.ServiceID(id)] = cost
	}
	return out, nil
}
