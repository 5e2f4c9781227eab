package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/htmlindent/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's result.
type JSONFileResult struct {
	Path       string `json:"path"`
	Output     string `json:"output,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Status     string `json:"status"`
	Changed    bool   `json:"changed"`
	Written    bool   `json:"written,omitempty"`
	Backup     string `json:"backup,omitempty"`
	Additions  int    `json:"additions,omitempty"`
	Deletions  int    `json:"deletions,omitempty"`
	Diff       string `json:"diff,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int   `json:"filesChecked"`
	FilesChanged int   `json:"filesChanged"`
	FilesWritten int   `json:"filesWritten"`
	FilesSkipped int   `json:"filesSkipped"`
	FilesErrored int   `json:"filesErrored"`
	DurationMS   int64 `json:"durationMs"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFileResult{Path: displayPath(file.Path, r.opts.WorkingDir)}

		if file.Error != nil {
			entry.Status = "error"
			entry.Error = file.Error.Error()
		}

		if res := file.Result; res != nil {
			entry.Status = res.Status()
			entry.Kind = string(res.Kind)
			entry.Changed = res.Changed
			entry.Written = res.Written
			entry.Backup = displayPath(res.BackupPath, r.opts.WorkingDir)
			entry.SkipReason = res.SkipReason
			if res.OutputPath != res.Path {
				entry.Output = displayPath(res.OutputPath, r.opts.WorkingDir)
			}
			if res.Diff.HasChanges() {
				entry.Additions = res.Diff.Additions
				entry.Deletions = res.Diff.Deletions
				entry.Diff = res.Diff.String()
			}
		}

		output.Files = append(output.Files, entry)
	}

	output.Summary = JSONSummary{
		FilesChecked: result.Stats.FilesProcessed,
		FilesChanged: result.Stats.FilesChanged,
		FilesWritten: result.Stats.FilesWritten,
		FilesSkipped: result.Stats.FilesSkipped,
		FilesErrored: result.Stats.FilesErrored,
		DurationMS:   result.Stats.Duration.Milliseconds(),
	}
	return output
}
