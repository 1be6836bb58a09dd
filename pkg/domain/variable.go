package domain

import "fmt"

// Variable is a named slot with an ordered, finite domain of values.
// Domain order is significant: it drives enumeration order in the product.
type Variable struct {
	Name   string   `json:"name" yaml:"name" mapstructure:"name"`
	Kind   Kind     `json:"kind" yaml:"kind" mapstructure:"kind"`
	Domain []string `json:"domain" yaml:"domain" mapstructure:"domain"`
}

// NewVariable creates an unnamed boolean variable, the shape a freshly added variable has.
func NewVariable() Variable {
	return Variable{
		Name:   "",
		Kind:   KindBoolean,
		Domain: KindBoolean.DefaultDomain(),
	}
}

// Bool creates a named boolean variable.
func Bool(name string) Variable {
	v := NewVariable()
	v.Name = name
	return v
}

// Enum creates a named enum variable with the given values.
// With no values the enum default domain is used.
func Enum(name string, values ...string) Variable {
	domain := KindEnum.DefaultDomain()
	if len(values) > 0 {
		domain = append([]string(nil), values...)
	}
	return Variable{Name: name, Kind: KindEnum, Domain: domain}
}

// SetKind switches the variable's kind and resets its domain to the kind default.
// The reset happens even when k equals the current kind.
func (v *Variable) SetKind(k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
	v.Kind = k
	v.Domain = k.DefaultDomain()
	return nil
}

// SetDomainValue replaces the entry at index. Empty and duplicate values are allowed.
// It panics if index is out of range.
func (v *Variable) SetDomainValue(index int, value string) error {
	mustIndex("SetDomainValue", index, len(v.Domain))
	if !v.Kind.Editable() {
		return &ConstraintViolation{Variable: v.Name, Op: "set domain value", Reason: "boolean domain is fixed"}
	}
	v.Domain[index] = value
	return nil
}

// AppendDomainValue appends an empty entry to an enum domain.
func (v *Variable) AppendDomainValue() error {
	if !v.Kind.Editable() {
		return &ConstraintViolation{Variable: v.Name, Op: "append domain value", Reason: "boolean domain is fixed"}
	}
	v.Domain = append(v.Domain, "")
	return nil
}

// RemoveDomainValue removes the entry at index.
// An enum keeps at least one entry; a boolean domain cannot be changed.
// It panics if index is out of range.
func (v *Variable) RemoveDomainValue(index int) error {
	mustIndex("RemoveDomainValue", index, len(v.Domain))
	if !v.Kind.Editable() {
		return &ConstraintViolation{Variable: v.Name, Op: "remove domain value", Reason: "boolean domain is fixed"}
	}
	if len(v.Domain) <= 1 {
		return &ConstraintViolation{Variable: v.Name, Op: "remove domain value", Reason: "enum must keep at least one value"}
	}
	domain := make([]string, 0, len(v.Domain)-1)
	domain = append(domain, v.Domain[:index]...)
	v.Domain = append(domain, v.Domain[index+1:]...)
	return nil
}

// Clone returns a deep copy so the caller can mutate it without aliasing the domain slice.
func (v Variable) Clone() Variable {
	c := v
	if v.Domain != nil {
		c.Domain = make([]string, len(v.Domain))
		copy(c.Domain, v.Domain)
	}
	return c
}

// Normalized returns the variable as the model would hold it after a declaration
// read from a file: a missing kind is inferred (enum when a domain key is present,
// even an empty one, boolean otherwise), a boolean always gets ["true","false"] and
// an enum with no domain key gets the enum default. An explicitly empty domain is
// kept so the gate can report it.
func (v Variable) Normalized() (Variable, error) {
	out := v.Clone()
	switch out.Kind {
	case "":
		if out.Domain != nil {
			out.Kind = KindEnum
		} else {
			out.Kind = KindBoolean
		}
	case KindBoolean, KindEnum:
	default:
		return out, fmt.Errorf("variable %q: %w: %q", v.Name, ErrUnknownKind, string(v.Kind))
	}

	switch {
	case out.Kind == KindBoolean:
		out.Domain = KindBoolean.DefaultDomain()
	case out.Domain == nil:
		out.Domain = KindEnum.DefaultDomain()
	}
	return out, nil
}

// Normalized applies Variable.Normalized to every variable of the set.
func (s VariableSet) Normalized() (VariableSet, error) {
	out := make(VariableSet, 0, len(s))
	for _, v := range s {
		n, err := v.Normalized()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func mustIndex(op string, index, length int) {
	if index < 0 || index >= length {
		panic(fmt.Sprintf("domain: %s: index %d out of range [0,%d)", op, index, length))
	}
}
