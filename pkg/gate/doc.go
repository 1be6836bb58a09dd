// Package gate decides which variables of a VariableSet take part in generation.
//
// The default strict policy is all-or-nothing: a single variable with an empty
// name or an empty domain blanks the whole state space. The lenient policy
// skips such variables instead. Both report every problem as an Issue.
package gate
