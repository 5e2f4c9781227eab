package pretty

import (
	"fmt"
	"strings"
	"time"

	"github.com/yaklabco/htmlindent/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files reformatted, 1 error (5 files checked in 12ms)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	unformatted := stats.FilesChanged - stats.FilesWritten
	switch {
	case stats.FilesChanged == 0:
		parts = append(parts, s.Success.Render("All files formatted"))
	default:
		if stats.FilesWritten > 0 {
			parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s reformatted",
				stats.FilesWritten, plural(stats.FilesWritten, wordFile, wordFiles))))
		}
		if unformatted > 0 {
			parts = append(parts, s.Changed.Render(fmt.Sprintf("%d %s would be reformatted",
				unformatted, plural(unformatted, wordFile, wordFiles))))
		}
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Skipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s",
			stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}

	detail := fmt.Sprintf(" (%d %s checked", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))
	if stats.Duration > 0 {
		detail += " in " + stats.Duration.Round(time.Millisecond).String()
	}
	detail += ")"

	return strings.Join(parts, ", ") + s.Dim.Render(detail) + "\n"
}
