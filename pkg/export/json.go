package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aretw0/statespace/pkg/domain"
)

// JSON encodes space as an array of objects with two-space indentation.
// Key order inside each object follows the variable declaration order.
// An empty space encodes as "[]".
func JSON(space domain.StateSpace) string {
	if len(space) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	if err := domain.EncodeJSON(&buf, space, "  "); err != nil {
		// States only hold strings, so this is unreachable.
		panic(fmt.Sprintf("export: JSON: %v", err))
	}
	return buf.String()
}

// Display renders one line per state as "State <n>: <compact JSON>", n starting at 1.
func Display(space domain.StateSpace) string {
	var sb strings.Builder
	for i, s := range space {
		fmt.Fprintf(&sb, "State %d: %s\n", i+1, s.String())
	}
	return sb.String()
}
