package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/statespace/pkg/domain"
)

// Loader implements ports.SetLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	sets map[string]domain.VariableSet
	mu   sync.RWMutex
}

// NewLoader creates a Loader holding copies of the given sets.
func NewLoader(sets map[string]domain.VariableSet) *Loader {
	l := &Loader{sets: make(map[string]domain.VariableSet, len(sets))}
	for name, set := range sets {
		l.sets[name] = set.Clone()
	}
	return l
}

// Register adds or replaces a named set.
func (l *Loader) Register(name string, set domain.VariableSet) error {
	if name == "" {
		return fmt.Errorf("set name is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sets[name] = set.Clone()
	return nil
}

// LoadSet returns a copy of the named set.
func (l *Loader) LoadSet(ctx context.Context, name string) (domain.VariableSet, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	set, ok := l.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSetNotFound, name)
	}
	return set.Clone(), nil
}

// ListSets returns all set names.
func (l *Loader) ListSets(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.sets))
	for name := range l.sets {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
