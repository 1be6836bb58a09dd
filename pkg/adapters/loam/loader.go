package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/statespace/pkg/domain"
)

// Loader adapts the Loam library to the SetLoader interface.
// Every document (markdown with frontmatter, YAML or JSON) holding a
// "variables" list is one named set.
type Loader struct {
	Repo *loam.TypedRepository[SetMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[SetMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sets directory: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[SetMetadata](repo)), nil
}

// LoadSet retrieves a set by name. The name is the document's "name" key,
// or its ID without extension.
func (l *Loader) LoadSet(ctx context.Context, name string) (domain.VariableSet, error) {
	// Fast path: the document ID usually is the set name.
	if doc, err := l.Repo.Get(ctx, name); err == nil && setName(doc.ID, doc.Data) == name {
		return decodeVariables(name, doc.Data.Variables)
	}

	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	for _, doc := range docs {
		if setName(doc.ID, doc.Data) == name && doc.Data.Variables != nil {
			return decodeVariables(name, doc.Data.Variables)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSetNotFound, name)
}

// ListSets lists all documents that declare variables.
func (l *Loader) ListSets(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.Variables == nil {
			continue
		}
		name := setName(doc.ID, doc.Data)

		// Collision Detection
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: set '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func setName(docID string, meta SetMetadata) string {
	if meta.Name != "" {
		return meta.Name
	}
	return trimExtension(docID)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// decodeVariables turns the raw frontmatter list into a normalized VariableSet.
// Kinds go through Kind.UnmarshalText and scalar domain values become strings.
func decodeVariables(setName string, raw []any) (domain.VariableSet, error) {
	set := make(domain.VariableSet, 0, len(raw))
	for i, item := range raw {
		var v domain.Variable
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			WeaklyTypedInput: true,
			Result:           &v,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("set %q: failed to decode variable %d: %w", setName, i, err)
		}
		set = append(set, v)
	}

	normalized, err := set.Normalized()
	if err != nil {
		return nil, fmt.Errorf("set %q: %w", setName, err)
	}
	return normalized, nil
}
