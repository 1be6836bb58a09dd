package dsl

import (
	"fmt"
	"sort"

	"github.com/aretw0/statespace/pkg/adapters/memory"
	"github.com/aretw0/statespace/pkg/domain"
)

// Builder accumulates variables in declaration order.
type Builder struct {
	vars domain.VariableSet
}

// New creates a new set builder.
func New() *Builder {
	return &Builder{}
}

// Bool declares a boolean variable.
func (b *Builder) Bool(name string) *Builder {
	b.vars.Append(domain.Bool(name))
	return b
}

// Enum declares an enum variable. With no values the enum default domain is used.
func (b *Builder) Enum(name string, values ...string) *Builder {
	b.vars.Append(domain.Enum(name, values...))
	return b
}

// Var starts a variable that can be configured step by step.
func (b *Builder) Var(name string) *VariableBuilder {
	v := b.vars.Add()
	v.Name = name
	return &VariableBuilder{builder: b, index: len(b.vars) - 1}
}

// Build returns a copy of the declared set. The builder stays usable.
func (b *Builder) Build() domain.VariableSet {
	return b.vars.Clone()
}

// VariableBuilder provides a fluent API for configuring one variable.
type VariableBuilder struct {
	builder *Builder
	index   int
}

func (vb *VariableBuilder) variable() *domain.Variable {
	return &vb.builder.vars[vb.index]
}

// Enum switches the variable to an enum with the given values.
// With no values the domain resets to the enum default ["option1","option2"].
func (vb *VariableBuilder) Enum(values ...string) *VariableBuilder {
	v := vb.variable()
	_ = v.SetKind(domain.KindEnum)
	if len(values) > 0 {
		v.Domain = append([]string(nil), values...)
	}
	return vb
}

// Bool switches the variable to a boolean.
func (vb *VariableBuilder) Bool() *VariableBuilder {
	_ = vb.variable().SetKind(domain.KindBoolean)
	return vb
}

// Value appends one value to an enum domain. It is ignored on booleans.
// It appends to whatever the domain holds, so Enum().Value("a") yields
// [option1 option2 a]; use Enum("a") to replace the default.
func (vb *VariableBuilder) Value(value string) *VariableBuilder {
	v := vb.variable()
	if err := v.AppendDomainValue(); err == nil {
		_ = v.SetDomainValue(len(v.Domain)-1, value)
	}
	return vb
}

// Done returns to the set builder.
func (vb *VariableBuilder) Done() *Builder {
	return vb.builder
}

// Catalog manages several named sets.
type Catalog struct {
	sets map[string]*Builder
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{sets: make(map[string]*Builder)}
}

// Add creates a named set in the catalog.
// If the set already exists, it returns the existing builder.
func (c *Catalog) Add(name string) *Builder {
	if b, ok := c.sets[name]; ok {
		return b
	}
	b := New()
	c.sets[name] = b
	return b
}

// Names returns the set names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.sets))
	for name := range c.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build compiles the catalog into a memory Loader.
func (c *Catalog) Build() (*memory.Loader, error) {
	loader := memory.NewLoader(nil)
	for _, name := range c.Names() {
		if err := loader.Register(name, c.sets[name].Build()); err != nil {
			return nil, fmt.Errorf("failed to build memory loader: %w", err)
		}
	}
	return loader, nil
}
