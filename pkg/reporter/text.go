package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/htmlindent/internal/ui/pretty"
	"github.com/yaklabco/htmlindent/pkg/runner"
)

// TextReporter writes one status line per file of interest and a summary.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Unchanged files are listed only when Verbose
// is set.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}
		if file.Result == nil {
			continue
		}
		if !file.Result.Changed && !file.Result.Skipped && !r.opts.Verbose {
			continue
		}

		shown := *file.Result
		shown.OutputPath = displayPath(shown.OutputPath, r.opts.WorkingDir)
		shown.Path = path
		fmt.Fprint(r.bw, r.styles.FormatFileStatus(path, &shown))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.FilesChanged, nil
}
