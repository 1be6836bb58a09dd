package ports

import (
	"context"

	"github.com/aretw0/statespace/pkg/domain"
)

// SetLoader defines how hosts retrieve named variable sets.
// This allows the definition source (file, Loam, memory) to be decoupled.
type SetLoader interface {
	// LoadSet returns the variable set registered under name.
	// Returns domain.ErrSetNotFound if no such set exists.
	LoadSet(ctx context.Context, name string) (domain.VariableSet, error)

	// ListSets returns the names of all available sets, sorted.
	ListSets(ctx context.Context) ([]string, error)
}
