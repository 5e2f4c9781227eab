package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/htmlindent/pkg/format"
)

// FormatFileStatus formats one file's outcome as "path: status".
func (s *Styles) FormatFileStatus(path string, result *format.Result) string {
	var status string
	switch {
	case result.Skipped:
		status = s.Skipped.Render(result.Status())
	case result.Written:
		status = s.Written.Render(result.Status())
	case result.Changed:
		status = s.Changed.Render(result.Status())
	default:
		status = s.Unchanged.Render(result.Status())
	}

	line := s.FilePath.Render(path) + ": " + status
	if result.OutputPath != "" && result.OutputPath != result.Path {
		line += s.Dim.Render(" -> " + result.OutputPath)
	}
	return line + "\n"
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render(fmt.Sprintf("error: %v", err)))
}

// FormatDiffLine colors a single unified diff line by its prefix.
func (s *Styles) FormatDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return s.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return s.DiffHeader.Render(line)
	case strings.HasPrefix(line, "+"):
		return s.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return s.DiffRemove.Render(line)
	default:
		return s.DiffContext.Render(line)
	}
}
