// Package export renders a StateSpace as text.
//
// JSON and CSV are the canonical encodings. CSV uses naive quoting by default:
// every field is wrapped in double quotes and embedded quotes are left as is.
// Set Options.RFC4180 for standard escaping. YAML, markdown, table and display
// are conveniences for hosts.
package export

import (
	"fmt"
	"io"

	"github.com/aretw0/statespace/pkg/domain"
)

// Options tunes encodings that have variants.
type Options struct {
	RFC4180 bool `json:"rfc4180" yaml:"rfc4180"` // Escape embedded quotes in CSV and end lines with CRLF
}

// Render encodes space in the given format.
// An empty result with ok == false means the format has nothing to write,
// which only happens for CSV of an empty space.
func Render(format Format, space domain.StateSpace, opts Options) (out []byte, ok bool, err error) {
	switch format {
	case FormatJSON:
		return []byte(JSON(space)), true, nil
	case FormatCSV:
		s, ok := CSVWith(space, opts)
		return []byte(s), ok, nil
	case FormatYAML:
		s, err := YAML(space)
		if err != nil {
			return nil, false, err
		}
		return []byte(s), true, nil
	case FormatMarkdown:
		return []byte(Markdown(space)), true, nil
	case FormatTable:
		return []byte(Table(space)), true, nil
	case FormatDisplay:
		return []byte(Display(space)), true, nil
	default:
		return nil, false, fmt.Errorf("unsupported format %q", format)
	}
}

// Encode writes space to w in the given format and returns the number of bytes written.
// Nothing is written for an empty CSV.
func Encode(w io.Writer, format Format, space domain.StateSpace, opts Options) (int, error) {
	out, ok, err := Render(format, space, opts)
	if err != nil || !ok {
		return 0, err
	}
	return w.Write(out)
}
