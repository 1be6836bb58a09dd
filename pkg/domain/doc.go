/*
Package domain contains the core models of the state-space engine.

It defines the variables a user declares, the domains they range over, and the
states produced by enumerating every combination of those domains. This package
is kept pure and free of I/O, persistence or presentation concerns, following
Hexagonal Architecture principles.

# Key Entities

  - Variable: a named, typed slot with an ordered domain of string values.
  - Kind: how a variable's domain is managed (boolean is locked, enum is editable).
  - VariableSet: the ordered list of variables; order drives key order and product precedence.
  - State: one complete assignment of a value to every eligible variable, keys in declaration order.
  - StateSpace: the ordered enumeration of all states.
*/
package domain
