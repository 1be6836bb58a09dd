package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/statespace/pkg/domain"
)

// YAML encodes space as a sequence of mappings, keeping key order.
// An empty space encodes as "[]\n".
func YAML(space domain.StateSpace) (string, error) {
	if len(space) == 0 {
		return "[]\n", nil
	}
	b, err := yaml.Marshal(space)
	if err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}
	return string(b), nil
}
