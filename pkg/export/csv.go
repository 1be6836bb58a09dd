package export

import (
	"strings"

	"github.com/aretw0/statespace/pkg/domain"
)

// CSV encodes space with naive quoting. See CSVWith.
func CSV(space domain.StateSpace) (string, bool) {
	return CSVWith(space, Options{})
}

// CSVWith encodes space as CSV. The header is the key list of the first state
// and every row follows header order. Fields are always wrapped in double quotes;
// rows are joined by "\n" with no trailing newline.
//
// With opts.RFC4180 embedded quotes are doubled and rows end with "\r\n".
// An empty space produces nothing and ok == false.
func CSVWith(space domain.StateSpace, opts Options) (string, bool) {
	if len(space) == 0 {
		return "", false
	}

	sep := "\n"
	if opts.RFC4180 {
		sep = "\r\n"
	}

	header := space.Header()
	lines := make([]string, 0, len(space)+1)
	lines = append(lines, csvLine(header, opts.RFC4180))

	row := make([]string, len(header))
	for _, s := range space {
		for i, key := range header {
			row[i], _ = s.Get(key)
		}
		lines = append(lines, csvLine(row, opts.RFC4180))
	}
	return strings.Join(lines, sep), true
}

func csvLine(fields []string, escape bool) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		if escape {
			f = strings.ReplaceAll(f, `"`, `""`)
		}
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}
