/*
Package statespace enumerates every state of a set of finite variables.

The user declares named variables, each with an ordered domain of string values
(booleans are fixed to "true" and "false"; enums are free-form). The engine
computes the Cartesian product of those domains, the state space, and renders it
as JSON, CSV or a few human-oriented encodings.

# Concept

Generation is a pure pipeline: Variable Model -> Gate -> Generator -> Serializer.
The gate is all-or-nothing by default: one variable with an empty name or an
empty domain yields the empty state space rather than an error. States keep the
declaration order of the variables, and the first variable is the most
significant in the enumeration.

# Key Features

  - Deterministic Output: the same variable set always produces the same ordered states.
  - Hexagonal Architecture: named sets come from pluggable loaders (file, Loam, memory) and encoded exports can be cached (memory, Redis).
  - Several Encodings: json, csv (naive or RFC 4180), yaml, markdown, table and display.
  - Hosts: a CLI, an HTTP API and an MCP server are built on the same Engine.

# Usage

	package main

	import (
		"fmt"

		"github.com/aretw0/statespace"
		"github.com/aretw0/statespace/pkg/domain"
		"github.com/aretw0/statespace/pkg/export"
	)

	func main() {
		set := domain.NewVariableSet(
			domain.Bool("userLoggedIn"),
			domain.Enum("theme", "light", "dark"),
		)

		space := statespace.Generate(set)
		fmt.Println(export.JSON(space))

		if csv, ok := export.CSV(space); ok {
			fmt.Println(csv)
		}
	}

For named sets, limits, caching and hooks use New with options.
*/
package statespace
