package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/htmlindent/pkg/config"
	"github.com/yaklabco/htmlindent/pkg/format"
	"github.com/yaklabco/htmlindent/pkg/runner"
)

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()

	pipeline, err := format.NewPipelineFromConfig(config.NewConfig())
	require.NoError(t, err)
	return runner.New(pipeline)
}

func write(t *testing.T, root, name, content string) string {
	t.Helper()

	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasChanges())
	assert.False(t, result.HasErrors())
}

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "clean.html", "<div>\n    <p>x</p>\n</div>\n")
	write(t, root, "messy.html", "<div><p>x</p></div>")
	write(t, root, "bad.html", "<p>\uE001</p>")

	result, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, filepath.Join(root, "bad.html"), result.Files[0].Path)
	require.Error(t, result.Files[0].Error)
	assert.Equal(t, "unchanged", result.Files[1].Result.Status())
	assert.Equal(t, "would reformat", result.Files[2].Result.Status())

	assert.Equal(t, runner.Stats{
		FilesDiscovered: 3,
		FilesProcessed:  2,
		FilesChanged:    1,
		FilesErrored:    1,
		Duration:        result.Stats.Duration,
	}, result.Stats)
	assert.True(t, result.HasChanges())
	assert.Len(t, result.Errors(), 1)
}

func TestRunner_Run_Write(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := write(t, root, "index.html", "<ul><li>a</li></ul>")

	opts := runner.Options{
		WorkingDir: root,
		Format:     format.Options{Write: true},
	}
	result, err := newRunner(t).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesWritten)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n    <li>a</li>\n</ul>\n", string(content))

	again, err := newRunner(t).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, again.HasChanges())
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		write(t, root, filepath.Join(name, "index.html"), "<div><span>"+name+"</span><p>x</p></div>")
	}

	serial, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: root, Jobs: 1})
	require.NoError(t, err)
	parallel, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: root, Jobs: 8})
	require.NoError(t, err)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Result.Formatted, parallel.Files[i].Result.Formatted)
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "index.html", "<p>x</p>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t).Run(ctx, runner.Options{WorkingDir: root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Input = config.InputHTML
	cfg.Ignore = []string{"dist/**"}
	cfg.Jobs = 3

	opts := runner.OptionsFromConfig(cfg, []string{"site"})
	assert.Equal(t, []string{"site"}, opts.Paths)
	assert.Equal(t, config.DefaultExtensions, opts.Extensions)
	assert.Equal(t, []string{"dist/**"}, opts.Ignore)
	assert.Equal(t, 3, opts.Jobs)
	assert.True(t, opts.SkipVendored)
}
