package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/htmlindent/internal/configloader"
	"github.com/yaklabco/htmlindent/internal/logging"
	"github.com/yaklabco/htmlindent/internal/ui/pretty"
	"github.com/yaklabco/htmlindent/pkg/config"
	"github.com/yaklabco/htmlindent/pkg/format"
	"github.com/yaklabco/htmlindent/pkg/indent"
	"github.com/yaklabco/htmlindent/pkg/reporter"
	"github.com/yaklabco/htmlindent/pkg/runner"
)

// stdinName is the display name of standard input.
const stdinName = "<stdin>"

const formatExamples = `  htmlindent < page.html                Indent stdin to stdout
  htmlindent --check .                  Exit 1 if any file would change
  htmlindent -w --tabs site/            Rewrite files, indenting with tabs
  htmlindent --diff --inline button .   Show diffs, keeping <button> inline
  htmlindent -w docs/README.md          Render Markdown to docs/README.html`

func newFormatCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Re-indent HTML files or stdin (default command)",
		Long: `Re-indent HTML files, directories, or standard input.

Without --write the files are only checked and the files that would change
are listed. With no paths and piped input, the result goes to stdout.
Pass "-" to read stdin explicitly.`,
		Example: formatExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags)
		},
	}

	addFormatFlags(cmd.Flags(), flags)

	return cmd
}

func runFormat(cmd *cobra.Command, args []string, flags *formatFlags) error {
	ctx := commandContext(cmd)

	cliCfg, err := flags.cliConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if cliCfg.Write && cliCfg.Check {
		return usageError("--write and --check are mutually exclusive")
	}

	cfg, workDir, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	if readsStdin(cmd, args) {
		if cfg.Write {
			return usageError("--write cannot be used with stdin")
		}
		return runStdin(ctx, cmd, cfg)
	}
	return runFiles(ctx, cmd, cfg, workDir, args, flags.verbose)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the layered configuration with cliCfg on top.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", withExitCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	var explicitPath string
	if flag := cmd.Flags().Lookup(flagConfig); flag != nil {
		explicitPath = flag.Value.String()
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: explicitPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", withExitCode(ExitConfigError, err)
	}

	logger := logging.FromContext(ctx)
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	logger.Debug("configuration loaded",
		logging.FieldConfig, result.LoadedFrom,
		logging.FieldIndentation, fmt.Sprintf("%q", result.Config.Indentation),
		logging.FieldInput, result.Config.Input,
	)

	return result.Config, workDir, nil
}

func colorMode(cmd *cobra.Command) string {
	if flag := cmd.Flags().Lookup(flagColor); flag != nil {
		return flag.Value.String()
	}
	return "auto"
}

// readsStdin reports whether input comes from stdin: either "-" is the
// only argument, or there are no arguments and stdin is not a terminal.
func readsStdin(cmd *cobra.Command, args []string) bool {
	if len(args) == 1 && args[0] == "-" {
		return true
	}
	if len(args) > 0 {
		return false
	}

	file, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return true
	}
	return !term.IsTerminal(int(file.Fd()))
}

func runStdin(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("read stdin: %w", err))
	}

	pipeline, err := format.NewPipelineFromConfig(cfg)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	result, err := pipeline.ProcessBytes(ctx, stdinName, input, format.OptionsFromConfig(cfg))
	if err != nil {
		return stdinError(err)
	}
	if result.Skipped {
		return withExitCode(ExitConfigError, fmt.Errorf("%s: %s", stdinName, result.SkipReason))
	}

	if cfg.Logging {
		writeMatchLog(cmd.ErrOrStderr(), result.Log)
	}

	out := cmd.OutOrStdout()
	switch {
	case cfg.Check:
		// Nothing to print.
	case cfg.Diff || cfg.Format == config.FormatDiff:
		if result.Diff != nil {
			if _, err := io.WriteString(out, result.Diff.String()); err != nil {
				return withExitCode(ExitIOError, fmt.Errorf("write diff: %w", err))
			}
		}
	default:
		color := pretty.IsColorEnabled(colorMode(cmd), out)
		if err := pretty.WriteSource(out, string(result.Formatted), color); err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("write output: %w", err))
		}
	}

	if cfg.Check && result.Changed {
		return ErrUnformatted
	}
	return nil
}

func stdinError(err error) error {
	switch {
	case errors.Is(err, indent.ErrInternalConsistency):
		return withExitCode(ExitInternalError, err)
	case errors.Is(err, indent.ErrInvalidArgument):
		return withExitCode(ExitConfigError, err)
	default:
		return withExitCode(ExitIOError, err)
	}
}

// writeMatchLog prints one line per tokenizer match.
func writeMatchLog(w io.Writer, entries []indent.LogEntry) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "indent",
		Level:           log.InfoLevel,
	})
	for _, entry := range entries {
		logger.Info("match",
			logging.FieldRule, entry.Rule,
			logging.FieldPattern, entry.Pattern,
			logging.FieldMatch, entry.Match,
		)
	}
}

func runFiles(ctx context.Context, cmd *cobra.Command, cfg *config.Config, workDir string, paths []string, verbose bool) error {
	logger := logging.FromContext(ctx)

	pipeline, err := format.NewPipelineFromConfig(cfg)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	opts := runner.OptionsFromConfig(cfg, paths)
	opts.WorkingDir = workDir

	result, err := runner.New(pipeline).Run(ctx, opts)
	if err != nil {
		return withExitCode(ExitIOError, err)
	}

	outputFormat := reporter.Format(cfg.Format)
	if cfg.Diff && outputFormat == reporter.FormatText {
		outputFormat = reporter.FormatDiff
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      outputFormat,
		Color:       colorMode(cmd),
		ShowSummary: true,
		Verbose:     verbose,
		WorkingDir:  workDir,
	})
	if err != nil {
		return usageError("%w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write report: %w", err))
	}

	logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldDuration, result.Stats.Duration,
	)

	if result.HasErrors() {
		errs := result.Errors()
		return withExitCode(fileErrorsCode(errs), errors.Join(errs...))
	}
	if cfg.Check && result.HasChanges() {
		return ErrUnformatted
	}
	return nil
}
