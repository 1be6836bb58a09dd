package domain

import (
	"fmt"
	"strings"
)

// Kind defines how a variable's domain is managed.
type Kind string

const (
	KindBoolean Kind = "boolean" // Domain locked to ["true", "false"]
	KindEnum    Kind = "enum"    // Freely editable, at least one entry
)

// Boolean and enum domain defaults, applied whenever a kind is (re)selected.
var (
	booleanDomain = []string{"true", "false"}
	enumDomain    = []string{"option1", "option2"}
)

// ParseKind converts a user supplied kind name (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBoolean, "bool":
		return KindBoolean, nil
	case KindEnum:
		return KindEnum, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindBoolean || k == KindEnum
}

// DefaultDomain returns a fresh copy of the domain a variable gets when k is selected.
func (k Kind) DefaultDomain() []string {
	switch k {
	case KindBoolean:
		return append([]string(nil), booleanDomain...)
	case KindEnum:
		return append([]string(nil), enumDomain...)
	default:
		return nil
	}
}

// Editable reports whether the domain of a variable of this kind can be edited entry by entry.
func (k Kind) Editable() bool {
	return k == KindEnum
}

// UnmarshalText lets JSON and YAML decoders accept "Boolean", "bool", "ENUM" and so on.
// An empty value is kept empty so loaders can infer the kind from the domain.
func (k *Kind) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = ""
		return nil
	}
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
