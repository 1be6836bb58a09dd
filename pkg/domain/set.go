package domain

import "fmt"

// VariableSet is the ordered list of declared variables.
// The first variable is the most significant in the product and leads every state.
type VariableSet []Variable

// NewVariableSet builds a set from the given variables, cloning each one.
func NewVariableSet(vars ...Variable) VariableSet {
	set := make(VariableSet, 0, len(vars))
	set.Append(vars...)
	return set
}

// Add appends a default variable (see NewVariable) and returns a pointer to it.
// The pointer is only valid until the next change to the set's length.
func (s *VariableSet) Add() *Variable {
	*s = append(*s, NewVariable())
	return &(*s)[len(*s)-1]
}

// Append appends copies of the given variables.
func (s *VariableSet) Append(vars ...Variable) {
	for _, v := range vars {
		*s = append(*s, v.Clone())
	}
}

// Remove deletes the variable at index. It panics if index is out of range.
func (s *VariableSet) Remove(index int) {
	if index < 0 || index >= len(*s) {
		panic(fmt.Sprintf("domain: Remove: index %d out of range [0,%d)", index, len(*s)))
	}
	out := make(VariableSet, 0, len(*s)-1)
	out = append(out, (*s)[:index]...)
	*s = append(out, (*s)[index+1:]...)
}

// Names returns the variable names in declaration order, including empty ones.
func (s VariableSet) Names() []string {
	names := make([]string, len(s))
	for i, v := range s {
		names[i] = v.Name
	}
	return names
}

// Clone returns a deep copy of the set.
func (s VariableSet) Clone() VariableSet {
	if s == nil {
		return nil
	}
	return NewVariableSet(s...)
}
