package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/statespace"
	"github.com/aretw0/statespace/internal/presentation/tui"
	"github.com/aretw0/statespace/pkg/export"
)

// WriteOutput writes an export to path, or to stdout when path is empty.
// Markdown going to a terminal is rendered through glamour.
// An empty CSV writes nothing and leaves a notice on stderr.
func WriteOutput(out *statespace.Output, path string, stdout *os.File, stderr io.Writer) error {
	if !out.OK {
		tui.Notice(stderr, "No states to write.")
		return nil
	}

	if path != "" {
		if err := os.WriteFile(path, out.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		tui.Notice(stderr, "Wrote %d bytes to %s", len(out.Data), path)
		return nil
	}

	data := string(out.Data)
	if out.Format == export.FormatMarkdown && IsTerminal(stdout) {
		render, err := tui.NewRenderer(TerminalWidth(stdout))
		if err == nil {
			if rendered, err := render(data); err == nil {
				data = rendered
			}
		}
	}

	if _, err := io.WriteString(stdout, data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(stdout, "\n")
		return err
	}
	return nil
}
