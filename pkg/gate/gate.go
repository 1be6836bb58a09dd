package gate

import (
	"fmt"
	"strings"

	"github.com/aretw0/statespace/pkg/domain"
)

// Policy decides what happens when some variables are not eligible.
type Policy string

const (
	// PolicyStrict blanks the whole space when any variable is malformed.
	PolicyStrict Policy = "strict"
	// PolicyLenient drops malformed variables and generates from the rest.
	PolicyLenient Policy = "lenient"
)

// ParsePolicy converts a configuration value into a Policy. Empty means strict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown gate policy %q (want strict or lenient)", s)
	}
}

// Reason classifies an Issue.
type Reason string

const (
	ReasonEmptySet       Reason = "empty_set"
	ReasonEmptyName      Reason = "empty_name"
	ReasonEmptyDomain    Reason = "empty_domain"
	ReasonDuplicateName  Reason = "duplicate_name"
	ReasonDuplicateValue Reason = "duplicate_value"
)

// Issue describes one problem found in a VariableSet.
type Issue struct {
	Index    int    `json:"index"`              // Position in the set, -1 for set-wide issues
	Variable string `json:"variable,omitempty"` // Variable name when known
	Reason   Reason `json:"reason"`
	Value    string `json:"value,omitempty"` // Offending domain value for duplicate_value
	Blocking bool   `json:"blocking"`        // Whether the issue fails the strict gate
}

func (i Issue) String() string {
	return i.Err().Error()
}

// Err returns the issue as an error value.
func (i Issue) Err() error {
	return &IssueError{Issue: i}
}

// Options tunes the gate.
type Options struct {
	Policy      Policy
	UniqueNames bool // Report duplicate names and values; duplicate names then block
}

// Result is the outcome of running the gate over a VariableSet.
type Result struct {
	Passed   bool              `json:"passed"`
	Eligible []domain.Variable `json:"eligible"`
	Issues   []Issue           `json:"issues"`
}

// Err aggregates the blocking issues, or returns nil when the gate passed.
func (r Result) Err() error {
	if r.Passed {
		return nil
	}
	var errs []error
	for _, issue := range r.Issues {
		if issue.Blocking {
			errs = append(errs, issue.Err())
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

// Eligible reports whether a variable can take part in generation:
// it has a name and at least one domain value.
func Eligible(v domain.Variable) bool {
	return v.Name != "" && len(v.Domain) >= 1
}

// Check runs the strict gate with default options.
func Check(set domain.VariableSet) Result {
	return CheckWith(set, Options{Policy: PolicyStrict})
}

// CheckWith runs the gate with the given options.
//
// Under PolicyStrict any blocking issue fails the gate and Eligible is empty.
// Under PolicyLenient malformed variables are reported and skipped; the gate
// fails only when no eligible variable remains.
// The eligible list always preserves declaration order.
func CheckWith(set domain.VariableSet, opts Options) Result {
	res := Result{Issues: []Issue{}}

	if len(set) == 0 {
		res.Issues = append(res.Issues, Issue{Index: -1, Reason: ReasonEmptySet, Blocking: true})
		return res
	}

	eligible := make([]domain.Variable, 0, len(set))
	blocked := false

	for i, v := range set {
		ok := true
		if v.Name == "" {
			res.Issues = append(res.Issues, Issue{Index: i, Reason: ReasonEmptyName, Blocking: true})
			ok = false
		}
		if len(v.Domain) == 0 {
			res.Issues = append(res.Issues, Issue{Index: i, Variable: v.Name, Reason: ReasonEmptyDomain, Blocking: true})
			ok = false
		}
		if !ok {
			blocked = true
			continue
		}
		eligible = append(eligible, v.Clone())
	}

	if opts.UniqueNames {
		dup := uniquenessIssues(set)
		for _, issue := range dup {
			if issue.Blocking {
				blocked = true
			}
		}
		res.Issues = append(res.Issues, dup...)
	}

	policy := opts.Policy
	if policy == "" {
		policy = PolicyStrict
	}

	switch policy {
	case PolicyLenient:
		if opts.UniqueNames {
			eligible = firstByName(eligible)
		}
		res.Passed = len(eligible) > 0
	default:
		res.Passed = !blocked
	}

	if res.Passed {
		res.Eligible = eligible
	} else {
		res.Eligible = []domain.Variable{}
	}
	return res
}

// uniquenessIssues reports repeated variable names (blocking) and repeated
// values inside a single domain (informational).
func uniquenessIssues(set domain.VariableSet) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(set))
	for i, v := range set {
		if v.Name != "" {
			if seen[v.Name] {
				issues = append(issues, Issue{Index: i, Variable: v.Name, Reason: ReasonDuplicateName, Blocking: true})
			}
			seen[v.Name] = true
		}
		values := make(map[string]bool, len(v.Domain))
		for _, val := range v.Domain {
			if values[val] {
				issues = append(issues, Issue{Index: i, Variable: v.Name, Reason: ReasonDuplicateValue, Value: val})
				continue
			}
			values[val] = true
		}
	}
	return issues
}

// firstByName keeps the first variable for each name.
func firstByName(vars []domain.Variable) []domain.Variable {
	seen := make(map[string]bool, len(vars))
	out := vars[:0]
	for _, v := range vars {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		out = append(out, v)
	}
	return out
}
