package export

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aretw0/statespace/pkg/domain"
)

const emptySpace = "(0 states)\n"

// Table renders space as a box-drawn table with a leading 1-based index column.
func Table(space domain.StateSpace) string {
	if len(space) == 0 {
		return emptySpace
	}
	t := newTable(space)
	t.SetStyle(table.StyleLight)

	var sb strings.Builder
	sb.WriteString(t.Render())
	fmt.Fprintf(&sb, "\n(%d states)\n", len(space))
	return sb.String()
}

// Markdown renders space as a GitHub-flavoured markdown table.
func Markdown(space domain.StateSpace) string {
	if len(space) == 0 {
		return emptySpace
	}
	return newTable(space).RenderMarkdown() + "\n"
}

func newTable(space domain.StateSpace) table.Writer {
	header := space.Header()

	t := table.NewWriter()
	headerRow := make(table.Row, 0, len(header)+1)
	headerRow = append(headerRow, "#")
	for _, key := range header {
		headerRow = append(headerRow, key)
	}
	t.AppendHeader(headerRow)

	for i, s := range space {
		row := make(table.Row, 0, len(header)+1)
		row = append(row, i+1)
		for _, key := range header {
			v, _ := s.Get(key)
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	return t
}
