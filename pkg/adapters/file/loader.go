package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/statespace/pkg/domain"
)

// SetDocument is one variable set inside a sets file.
type SetDocument struct {
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Variables   domain.VariableSet `yaml:"variables" json:"variables"`
}

// Document represents the structure of a sets file.
//
// A file either declares a single set at the top level:
//
//	name: login
//	variables:
//	  - name: userLoggedIn
//	  - name: theme
//	    domain: [light, dark]
//
// or several named sets under "sets".
type Document struct {
	Name        string                 `yaml:"name,omitempty" json:"name,omitempty"`
	Description string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Variables   domain.VariableSet     `yaml:"variables,omitempty" json:"variables,omitempty"`
	Sets        map[string]SetDocument `yaml:"sets,omitempty" json:"sets,omitempty"`
}

// Loader implements ports.SetLoader over a single YAML or JSON file.
// The file is read once at construction.
type Loader struct {
	path string
	sets map[string]domain.VariableSet
}

// NewLoader reads and parses the sets file at path.
func NewLoader(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sets file: %w", err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	sets, err := Parse(data, filepath.Ext(path), name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Loader{path: path, sets: sets}, nil
}

// Parse decodes a sets document. ext selects the decoder (".json" or YAML otherwise).
// A top-level set without a name is registered as defaultName.
func Parse(data []byte, ext, defaultName string) (map[string]domain.VariableSet, error) {
	var doc Document
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse sets json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse sets yaml: %w", err)
		}
	}

	sets := make(map[string]domain.VariableSet)
	if doc.Variables != nil {
		name := doc.Name
		if name == "" {
			name = defaultName
		}
		set, err := doc.Variables.Normalized()
		if err != nil {
			return nil, fmt.Errorf("set %q: %w", name, err)
		}
		sets[name] = set
	}
	for name, sd := range doc.Sets {
		if _, dup := sets[name]; dup {
			return nil, fmt.Errorf("set %q declared twice", name)
		}
		set, err := sd.Variables.Normalized()
		if err != nil {
			return nil, fmt.Errorf("set %q: %w", name, err)
		}
		sets[name] = set
	}
	return sets, nil
}

// Path returns the file the loader was built from.
func (l *Loader) Path() string {
	return l.path
}

// LoadSet returns a copy of the named set.
func (l *Loader) LoadSet(ctx context.Context, name string) (domain.VariableSet, error) {
	set, ok := l.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSetNotFound, name)
	}
	return set.Clone(), nil
}

// ListSets returns all set names in the file.
func (l *Loader) ListSets(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(l.sets))
	for name := range l.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Single returns the only set of the file. It fails when the file declares
// zero or several sets, in which case callers must pick one by name.
func (l *Loader) Single() (string, domain.VariableSet, error) {
	if len(l.sets) != 1 {
		names, _ := l.ListSets(context.Background())
		return "", nil, fmt.Errorf("%s declares %d sets %v, choose one by name", l.path, len(l.sets), names)
	}
	for name, set := range l.sets {
		return name, set.Clone(), nil
	}
	return "", nil, nil
}
