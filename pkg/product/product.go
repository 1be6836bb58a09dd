// Package product computes the Cartesian product of variable domains.
//
// The first variable is the most significant: its value changes slowest and its
// key leads every state. Domain order drives enumeration order, and duplicate
// domain values produce duplicate states.
package product

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/statespace/pkg/domain"
)

// ErrTooManyStates is returned when the product exceeds a configured limit
// or does not fit in an int.
var ErrTooManyStates = errors.New("too many states")

// Product enumerates every state of vars.
// An empty list yields a single empty state.
//
// It folds from the last variable to the first, which matches Recursive
// exactly without recursion depth limits.
func Product(vars []domain.Variable) domain.StateSpace {
	space := domain.StateSpace{domain.NewState()}
	for i := len(vars) - 1; i >= 0; i-- {
		v := vars[i]
		next := make(domain.StateSpace, 0, len(v.Domain)*len(space))
		for _, value := range v.Domain {
			for _, s := range space {
				next = append(next, s.Prepend(v.Name, value))
			}
		}
		space = next
	}
	return space
}

// Recursive is the literal definition of the product:
// for each value of the first variable, every state of the rest, led by that value.
func Recursive(vars []domain.Variable) domain.StateSpace {
	if len(vars) == 0 {
		return domain.StateSpace{domain.NewState()}
	}
	first, rest := vars[0], Recursive(vars[1:])
	out := make(domain.StateSpace, 0, len(first.Domain)*len(rest))
	for _, value := range first.Domain {
		for _, s := range rest {
			out = append(out, s.Prepend(first.Name, value))
		}
	}
	return out
}

// Count returns the number of states Product would emit for vars.
// It fails with ErrTooManyStates if the count overflows an int.
func Count(vars []domain.Variable) (int, error) {
	n := 1
	for _, v := range vars {
		d := len(v.Domain)
		if d == 0 {
			return 0, nil
		}
		if n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: product of %d domains overflows", ErrTooManyStates, len(vars))
		}
		n *= d
	}
	return n, nil
}

// Bounded is Product with a size guard: it fails before allocating when the
// product would exceed limit. A limit of zero or less means no limit.
func Bounded(vars []domain.Variable, limit int) (domain.StateSpace, error) {
	n, err := Count(vars)
	if err != nil {
		return nil, err
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w: %d states exceed the limit of %d", ErrTooManyStates, n, limit)
	}
	return Product(vars), nil
}
