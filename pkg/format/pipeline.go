// Package format runs a single source file through the indenter and, in
// write mode, puts the result back on disk safely.
package format

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/htmlindent/pkg/config"
	"github.com/yaklabco/htmlindent/pkg/diff"
	"github.com/yaklabco/htmlindent/pkg/fsutil"
	"github.com/yaklabco/htmlindent/pkg/indent"
	"github.com/yaklabco/htmlindent/pkg/langdetect"
	"github.com/yaklabco/htmlindent/pkg/markdown"
)

// Pipeline error types for categorization.
var (
	// ErrIndentFailure indicates the indenter rejected the input.
	ErrIndentFailure = errors.New("indent failure")

	// ErrRenderFailure indicates Markdown could not be rendered.
	ErrRenderFailure = errors.New("markdown render failure")

	// ErrWriteFailure indicates the formatted output could not be written.
	ErrWriteFailure = errors.New("write failure")
)

// Options controls how a single file is processed.
type Options struct {
	// Input forces the input kind. InputAuto decides per file.
	Input config.InputKind

	// Write puts the formatted content on disk.
	Write bool

	// Diff computes a unified diff for changed files.
	Diff bool

	// Backup configures backups made before a file is overwritten.
	Backup fsutil.BackupConfig
}

// OptionsFromConfig derives pipeline options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	backup := fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	if backup.Mode == "" {
		backup.Mode = fsutil.BackupModeSidecar
	}

	return Options{
		Input:  cfg.Input,
		Write:  cfg.Write,
		Diff:   cfg.Diff || cfg.Format == config.FormatDiff,
		Backup: backup,
	}
}

// Result is the outcome of processing one source.
type Result struct {
	// Path is the source that was read.
	Path string

	// OutputPath is where the formatted HTML goes. It equals Path for HTML
	// sources and is the sibling ".html" file for Markdown sources.
	OutputPath string

	// Kind is the resolved input kind.
	Kind langdetect.Kind

	// Original is the current content of OutputPath, empty when it does not
	// exist yet.
	Original []byte

	// Formatted is the indented output, ending in a newline unless empty.
	Formatted []byte

	// Changed is true when Formatted differs from Original.
	Changed bool

	// Diff is set when Options.Diff is enabled and the content changed.
	Diff *diff.Diff

	// Written is true if Formatted was written to OutputPath.
	Written bool

	// BackupPath is the backup created before writing, if any.
	BackupPath string

	// Skipped is true if the source was left alone.
	Skipped bool

	// SkipReason explains why the source was skipped.
	SkipReason string

	// Log holds the indenter's match log for ProcessBytes when logging is on.
	Log []indent.LogEntry
}

// Status returns a short human-readable status.
func (r *Result) Status() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupPath != "":
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "would reformat"
	default:
		return "unchanged"
	}
}

// Pipeline indents sources with a shared Indenter and Markdown renderer.
// It is safe for concurrent use.
type Pipeline struct {
	Indenter *indent.Indenter
	Renderer *markdown.Renderer
}

// NewPipeline creates a pipeline from its parts.
func NewPipeline(ind *indent.Indenter, renderer *markdown.Renderer) *Pipeline {
	return &Pipeline{Indenter: ind, Renderer: renderer}
}

// NewPipelineFromConfig builds the indenter and renderer described by cfg.
func NewPipelineFromConfig(cfg *config.Config) (*Pipeline, error) {
	ind, err := NewIndenter(cfg)
	if err != nil {
		return nil, err
	}
	return NewPipeline(ind, markdown.New(string(cfg.Flavor))), nil
}

// NewIndenter creates an Indenter with the configured indentation, logging
// and element classification. Block entries are applied after inline ones.
func NewIndenter(cfg *config.Config) (*indent.Indenter, error) {
	ind := indent.New(
		indent.WithIndentation(cfg.Indentation),
		indent.WithLogging(cfg.Logging),
	)

	for _, name := range cfg.Inline {
		if err := ind.SetElementType(name, indent.Inline); err != nil {
			return nil, fmt.Errorf("inline element %q: %w", name, err)
		}
	}
	for _, name := range cfg.Block {
		if err := ind.SetElementType(name, indent.Block); err != nil {
			return nil, fmt.Errorf("block element %q: %w", name, err)
		}
	}
	return ind, nil
}

// ProcessFile runs the pipeline for a single file.
//
// The pipeline:
//  1. Reads the source and takes a snapshot.
//  2. Resolves the input kind from the extension, then the content.
//  3. Renders Markdown to HTML when needed.
//  4. Indents and compares against the current output.
//  5. In write mode, backs up and replaces the output atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Path:       path,
		OutputPath: path,
		Kind:       resolveKind(path, content, opts.Input),
	}

	switch result.Kind {
	case langdetect.KindBinary:
		result.Skipped = true
		result.SkipReason = "binary content"
		return result, nil
	case langdetect.KindMarkdown:
		result.OutputPath = MarkdownOutputPath(path)
		original, outSnap, err := readExisting(ctx, result.OutputPath)
		if err != nil {
			return nil, err
		}
		result.Original = original
		snap = outSnap
	default:
		result.Original = content
	}

	formatted, err := p.render(ctx, content, result.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.finish(result, formatted, opts)

	if !opts.Write || !result.Changed {
		return result, nil
	}

	if err := write(ctx, result, snap, opts.Backup); err != nil {
		if errors.Is(err, fsutil.ErrModified) {
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return result, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	return result, nil
}

// ProcessBytes runs the pipeline over in-memory content such as stdin. name
// is used for kind detection and diffs and may be empty. Nothing is written.
func (p *Pipeline) ProcessBytes(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	result := &Result{
		Path:       name,
		OutputPath: name,
		Kind:       resolveKind(name, content, opts.Input),
		Original:   content,
	}
	if result.Kind == langdetect.KindBinary {
		result.Skipped = true
		result.SkipReason = "binary content"
		return result, nil
	}

	formatted, err := p.render(ctx, content, result.Kind)
	if err != nil {
		return nil, err
	}
	if result.Kind == langdetect.KindMarkdown {
		// The source is not HTML, so there is no meaningful "before".
		result.Original = formatted
	}
	p.finish(result, formatted, opts)
	result.Log = p.Indenter.Log()
	return result, nil
}

func (p *Pipeline) render(ctx context.Context, content []byte, kind langdetect.Kind) ([]byte, error) {
	source := content
	if kind == langdetect.KindMarkdown {
		html, err := p.Renderer.Render(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
		}
		source = html
	}

	out, err := p.Indenter.Indent(string(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndentFailure, err)
	}
	if out == "" {
		return nil, nil
	}
	return []byte(out + "\n"), nil
}

func (p *Pipeline) finish(result *Result, formatted []byte, opts Options) {
	result.Formatted = formatted
	result.Changed = string(formatted) != string(result.Original)
	if opts.Diff && result.Changed {
		result.Diff = diff.Generate(result.OutputPath, result.Original, formatted)
	}
}

// MarkdownOutputPath returns the HTML file written for a Markdown source.
func MarkdownOutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
}

func resolveKind(path string, content []byte, input config.InputKind) langdetect.Kind {
	detected := langdetect.Detect(path, content)
	if detected == langdetect.KindBinary {
		return detected
	}

	switch input {
	case config.InputHTML:
		return langdetect.KindHTML
	case config.InputMarkdown:
		return langdetect.KindMarkdown
	default:
		return detected
	}
}

// readExisting reads path if it exists. A missing file yields no content
// and a nil snapshot.
func readExisting(ctx context.Context, path string) ([]byte, *fsutil.Snapshot, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if errors.Is(err, fsutil.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return content, snap, nil
}

func write(ctx context.Context, result *Result, snap *fsutil.Snapshot, backup fsutil.BackupConfig) error {
	if snap == nil {
		if err := fsutil.WriteAtomic(ctx, result.OutputPath, result.Formatted, fsutil.DefaultFileMode); err != nil {
			return err
		}
		result.Written = true
		return nil
	}

	replaced, err := fsutil.Replace(ctx, snap, result.Formatted, backup)
	if err != nil {
		return err
	}
	result.Written = true
	result.BackupPath = replaced.BackupPath
	return nil
}
