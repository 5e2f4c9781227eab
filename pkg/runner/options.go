// Package runner indents many files concurrently.
package runner

import (
	"github.com/yaklabco/htmlindent/pkg/config"
	"github.com/yaklabco/htmlindent/pkg/format"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and ignore patterns. Empty means
	// the process working directory.
	WorkingDir string

	// Extensions are the lowercase extensions, with leading dot, that
	// directory walks pick up. Explicitly named files are always taken.
	Extensions []string

	// Ignore are glob patterns, relative to WorkingDir, for files and
	// directories to skip. "**" matches any number of path segments.
	Ignore []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// SkipVendored skips dependency directories such as node_modules.
	SkipVendored bool

	// Jobs bounds the worker pool. 0 or negative means runtime.NumCPU().
	Jobs int

	// Format is passed to the pipeline for every file.
	Format format.Options
}

// OptionsFromConfig derives run options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:        paths,
		Extensions:   cfg.EffectiveExtensions(),
		Ignore:       cfg.Ignore,
		SkipVendored: true,
		Jobs:         cfg.Jobs,
		Format:       format.OptionsFromConfig(cfg),
	}
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.NewConfig().EffectiveExtensions()
	}
	return o.Extensions
}
