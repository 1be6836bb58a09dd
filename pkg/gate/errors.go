package gate

import "fmt"

// IssueError wraps a single Issue as an error.
type IssueError struct {
	Issue Issue
}

func (e *IssueError) Error() string {
	i := e.Issue
	switch {
	case i.Index < 0:
		return fmt.Sprintf("set: %s", i.Reason)
	case i.Value != "" || i.Reason == ReasonDuplicateValue:
		return fmt.Sprintf("variable %d %q: %s (value %q)", i.Index, i.Variable, i.Reason, i.Value)
	case i.Variable == "":
		return fmt.Sprintf("variable %d: %s", i.Index, i.Reason)
	default:
		return fmt.Sprintf("variable %d %q: %s", i.Index, i.Variable, i.Reason)
	}
}

// AggregateError represents multiple gate failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d gate errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual issue errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Issues returns the issues inside err if it is an AggregateError or IssueError.
// Otherwise returns nil.
func Issues(err error) []Issue {
	switch e := err.(type) {
	case *IssueError:
		return []Issue{e.Issue}
	case *AggregateError:
		out := make([]Issue, 0, len(e.Errors))
		for _, inner := range e.Errors {
			if ie, ok := inner.(*IssueError); ok {
				out = append(out, ie.Issue)
			}
		}
		return out
	}
	return nil
}
