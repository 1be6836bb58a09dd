package loam

// SetMetadata represents the frontmatter of a variable-set document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
//	---
//	name: login
//	description: Login screen states
//	variables:
//	  - name: userLoggedIn
//	  - name: theme
//	    kind: enum
//	    domain: [light, dark]
//	---
//	Free-form notes.
type SetMetadata struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`

	// Variables is kept raw so each entry can be decoded with kind normalization.
	Variables []any `json:"variables" mapstructure:"variables"`
}
