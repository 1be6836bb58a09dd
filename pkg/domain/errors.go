package domain

import (
	"errors"
	"fmt"
)

// ErrConstraintViolation is matched by every *ConstraintViolation.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrUnknownKind is returned when a kind name is not boolean or enum.
var ErrUnknownKind = errors.New("unknown variable kind")

// ErrSetNotFound is returned when a named variable set cannot be found by a loader.
var ErrSetNotFound = errors.New("variable set not found")

// ConstraintViolation reports an edit that the variable model refuses,
// such as removing the last value of an enum or editing a boolean domain.
type ConstraintViolation struct {
	Variable string // Variable name (may be empty for unnamed variables)
	Op       string // Operation that was refused
	Reason   string // Human-readable reason
}

func (e *ConstraintViolation) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Op, e.Variable, e.Reason)
}

// Is makes errors.Is(err, ErrConstraintViolation) work for wrapped violations.
func (e *ConstraintViolation) Is(target error) bool {
	return target == ErrConstraintViolation
}
