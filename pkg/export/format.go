package export

import (
	"fmt"
	"slices"
	"strings"
)

// Format names a state-space encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatTable    Format = "table"
	FormatDisplay  Format = "display"
)

// BaseName is the file name hosts use for downloads, without extension.
const BaseName = "state-space"

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatYAML, FormatMarkdown, FormatTable, FormatDisplay}
}

// ParseFormat resolves a format name or common alias ("yml", "md", "text").
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatDisplay, nil
	}
	f := Format(name)
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("unsupported format %q", s)
	}
	return f, nil
}

// ContentType returns the MIME type hosts should announce for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// FileName returns the default download name, e.g. "state-space.csv".
func (f Format) FileName() string {
	return BaseName + f.Extension()
}
