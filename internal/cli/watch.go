package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/htmlindent/internal/logging"
	"github.com/yaklabco/htmlindent/pkg/config"
	"github.com/yaklabco/htmlindent/pkg/format"
	"github.com/yaklabco/htmlindent/pkg/runner"
	"github.com/yaklabco/htmlindent/pkg/watch"
)

func newWatchCommand() *cobra.Command {
	flags := &formatFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-indent files whenever they change",
		Long: `Format the given files and directories once, then watch them and
re-indent every file that is created or modified. Changes are written in
place. Stop with Ctrl-C.`,
		Example: `  htmlindent watch
  htmlindent watch --tabs site/ templates/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags, debounce)
		},
	}

	addFormatFlags(cmd.Flags(), flags)
	for _, name := range []string{"write", "check", "diff", "log", "format", "verbose"} {
		_ = cmd.Flags().MarkHidden(name)
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-indenting")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *formatFlags, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliCfg, err := flags.cliConfig(cmd.Flags())
	if err != nil {
		return err
	}
	cliCfg.Write = true
	cliCfg.Check = false

	cfg, workDir, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	pipeline, err := format.NewPipelineFromConfig(cfg)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			paths[i] = filepath.Join(workDir, p)
		}
	}

	logger := logging.FromContext(ctx)
	run := runner.New(pipeline)
	base := runner.OptionsFromConfig(cfg, paths)
	base.WorkingDir = workDir

	reindent(ctx, run, base, logger)

	watcher, err := watch.New(watch.Options{
		Paths:    paths,
		Debounce: debounce,
		Filter:   watchFilter(cfg, workDir),
	})
	if err != nil {
		return withExitCode(ExitIOError, err)
	}
	defer func() { _ = watcher.Close() }()

	logger.Info("watching for changes", logging.FieldPaths, watcher.WatchList())

	err = watcher.Run(ctx, func(ctx context.Context, changed []string) {
		opts := base
		opts.Paths = changed
		reindent(ctx, run, opts, logger)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return withExitCode(ExitIOError, err)
	}
	return nil
}

// watchFilter accepts files with a formatted extension that no ignore
// pattern matches.
func watchFilter(cfg *config.Config, workDir string) func(string) bool {
	exts := cfg.EffectiveExtensions()
	return func(path string) bool {
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return false
		}
		rel, err := filepath.Rel(workDir, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range cfg.Ignore {
			if runner.MatchGlob(pattern, rel) {
				return false
			}
		}
		return true
	}
}

func reindent(ctx context.Context, run *runner.Runner, opts runner.Options, logger *log.Logger) {
	result, err := run.Run(ctx, opts)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("format failed", logging.FieldError, err)
		}
		return
	}

	for _, file := range result.Files {
		switch {
		case file.Error != nil:
			logger.Error("format failed", logging.FieldPath, file.Path, logging.FieldError, file.Error)
		case file.Result.Written:
			logger.Info("formatted",
				logging.FieldPath, file.Path,
				logging.FieldOutput, file.Result.OutputPath,
				logging.FieldBackup, file.Result.BackupPath,
			)
		case file.Result.Skipped:
			logger.Warn("skipped", logging.FieldPath, file.Path, logging.FieldError, file.Result.SkipReason)
		}
	}
	logger.Debug("pass complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldDuration, result.Stats.Duration,
	)
}
