package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`     _        _                                  `, "#34d399"},
	{` ___| |_ __ _| |_ ___  ___ _ __   __ _  ___ ___ `, "#2dd4bf"},
	{`/ __| __/ _' | __/ _ \/ __| '_ \ / _' |/ __/ _ \`, "#22d3ee"},
	{`\__ \ || (_| | ||  __/\__ \ |_) | (_| | (_|  __/`, "#38bdf8"},
	{`|___/\__\__,_|\__\___||___/ .__/ \__,_|\___\___|`, "#60a5fa"},
	{`                          |_|                    `, "#818cf8"},
}

// PrintBanner writes the statespace ASCII banner to w, coloured for the
// terminal profile of w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Notice writes a dimmed system message, e.g. "no states to write".
func Notice(w io.Writer, format string, args ...any) {
	p := termenv.NewOutput(w).ColorProfile()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, termenv.String(">>> "+msg).Foreground(p.Color("#9ca3af")))
}
