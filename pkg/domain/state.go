package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// State is one complete assignment of a value to every eligible variable.
// Keys keep variable declaration order, which is also the order used by every encoding.
// The zero value is an empty state.
type State struct {
	pairs *orderedmap.OrderedMap[string, string]
}

// NewState creates an empty state.
func NewState() State {
	return State{pairs: orderedmap.New[string, string]()}
}

// StateFrom builds a state from alternating name/value arguments.
// It panics on an odd number of arguments.
func StateFrom(kv ...string) State {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("domain: StateFrom: odd number of arguments (%d)", len(kv)))
	}
	s := State{pairs: orderedmap.New[string, string](len(kv) / 2)}
	for i := 0; i < len(kv); i += 2 {
		s.pairs.Set(kv[i], kv[i+1])
	}
	return s
}

// Prepend returns a new state whose leading key is name, followed by the keys of s.
// If s already holds name, the value from s wins while the key keeps the leading position.
func (s State) Prepend(name, value string) State {
	out := State{pairs: orderedmap.New[string, string](s.Len() + 1)}
	out.pairs.Set(name, value)
	for k, v := range s.All() {
		out.pairs.Set(k, v)
	}
	return out
}

// Len returns the number of assigned variables.
func (s State) Len() int {
	if s.pairs == nil {
		return 0
	}
	return s.pairs.Len()
}

// Get returns the value assigned to name.
func (s State) Get(name string) (string, bool) {
	if s.pairs == nil {
		return "", false
	}
	return s.pairs.Get(name)
}

// Keys returns the variable names in key order.
func (s State) Keys() []string {
	keys := make([]string, 0, s.Len())
	for k := range s.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates name/value pairs in key order.
func (s State) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if s.pairs == nil {
			return
		}
		for pair := s.pairs.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Equal reports whether both states hold the same pairs in the same order.
func (s State) Equal(other State) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	a, b := s.pairs.Oldest(), other.pairs.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key || a.Value != b.Value {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the state as a JSON object in key order.
// Characters such as <, > and & are written literally.
func (s State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if s.pairs != nil {
		for pair := s.pairs.Oldest(); pair != nil; pair = pair.Next() {
			if buf.Len() > 1 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(&buf, pair.Key); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeJSONString(&buf, pair.Value); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeJSON writes v without HTML escaping and without the trailing newline
// json.Encoder adds. Callers reach literal output only through an encoder,
// since json.Marshal escapes the result of MarshalJSON again.
func EncodeJSON(buf *bytes.Buffer, v any, indent string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	return EncodeJSON(buf, s, "")
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (s *State) UnmarshalJSON(data []byte) error {
	pairs := orderedmap.New[string, string]()
	if err := pairs.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to decode state: %w", err)
	}
	s.pairs = pairs
	return nil
}

// MarshalYAML encodes the state as a YAML mapping in key order.
func (s State) MarshalYAML() (any, error) {
	if s.pairs == nil {
		return map[string]string{}, nil
	}
	return s.pairs.MarshalYAML()
}

// String returns the compact JSON form, e.g. {"userLoggedIn":"true","theme":"light"}.
func (s State) String() string {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, s, ""); err != nil {
		return fmt.Sprintf("<invalid state: %v>", err)
	}
	return buf.String()
}

// StateSpace is the ordered enumeration of every state.
type StateSpace []State

// Len returns the number of states.
func (sp StateSpace) Len() int { return len(sp) }

// Header returns the keys of the first state, or nil for an empty space.
func (sp StateSpace) Header() []string {
	if len(sp) == 0 {
		return nil
	}
	return sp[0].Keys()
}

// Equal reports whether both spaces hold equal states in the same order.
func (sp StateSpace) Equal(other StateSpace) bool {
	if len(sp) != len(other) {
		return false
	}
	for i := range sp {
		if !sp[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
