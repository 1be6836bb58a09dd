// Package sanitize guards hosts against oversized or hostile variable sets
// arriving over the network (HTTP and MCP adapters).
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/statespace/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB per name or value (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "STATESPACE_MAX_INPUT_SIZE"
	// DefaultMaxStates caps generation for remote callers (2^20 states)
	DefaultMaxStates = 1 << 20
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrControlChar   = errors.New("input contains control characters")
	ErrTooMany       = errors.New("input exceeds maximum allowed count")
)

// Limits bounds a variable set. Zero fields fall back to the defaults of Default.
type Limits struct {
	MaxInputSize int // bytes per name or value
	MaxVariables int
	MaxDomain    int // values per variable
	MaxStates    int // states per generation
}

// Default returns the limits used by the network adapters.
func Default() Limits {
	return Limits{
		MaxInputSize: getMaxInputSize(),
		MaxVariables: 256,
		MaxDomain:    1024,
		MaxStates:    DefaultMaxStates,
	}
}

func (l Limits) withDefaults() Limits {
	d := Default()
	if l.MaxInputSize <= 0 {
		l.MaxInputSize = d.MaxInputSize
	}
	if l.MaxVariables <= 0 {
		l.MaxVariables = d.MaxVariables
	}
	if l.MaxDomain <= 0 {
		l.MaxDomain = d.MaxDomain
	}
	if l.MaxStates <= 0 {
		l.MaxStates = d.MaxStates
	}
	return l
}

// StateCap returns the state limit a network host must run with: the engine
// limit when it is set and tighter, l.MaxStates otherwise. It is never zero.
func StateCap(engineMax int, l Limits) int {
	l = l.withDefaults()
	if engineMax > 0 && engineMax < l.MaxStates {
		return engineMax
	}
	return l.MaxStates
}

// Input checks one name or value: size limit, valid UTF-8, and no control
// characters other than tab, newline and carriage return.
// Values are rejected rather than cleaned so that what is enumerated is what was sent.
func Input(input string, l Limits) error {
	l = l.withDefaults()

	if len(input) > l.MaxInputSize {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), l.MaxInputSize)
	}
	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			return fmt.Errorf("%w: %U", ErrControlChar, r)
		}
	}
	return nil
}

// Set checks every name and value of set against l.
// Errors name the offending variable by position.
func Set(set domain.VariableSet, l Limits) error {
	l = l.withDefaults()

	if len(set) > l.MaxVariables {
		return fmt.Errorf("%w: %d variables, limit %d", ErrTooMany, len(set), l.MaxVariables)
	}
	for i, v := range set {
		if err := Input(v.Name, l); err != nil {
			return fmt.Errorf("variable %d name: %w", i, err)
		}
		if len(v.Domain) > l.MaxDomain {
			return fmt.Errorf("variable %d: %w: %d values, limit %d", i, ErrTooMany, len(v.Domain), l.MaxDomain)
		}
		for j, val := range v.Domain {
			if err := Input(val, l); err != nil {
				return fmt.Errorf("variable %d value %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
