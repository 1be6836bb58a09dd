/*
Package dsl provides a Go DSL (Domain Specific Language) for declaring variable sets.

It allows developers to define sets with a type-safe, fluent builder instead of
relying on external YAML or JSON files. This is particularly useful for tests
and for hosts that generate sets dynamically.

Example usage:

	set := dsl.New().
		Bool("userLoggedIn").
		Enum("theme", "light", "dark").
		Build()

	catalog := dsl.NewCatalog()
	catalog.Add("login").Bool("userLoggedIn").Enum("theme", "light", "dark")
	catalog.Add("flags").Bool("beta")

	// The resulting loader can be passed to statespace.WithLoader(...)
	loader, err := catalog.Build()
*/
package dsl
