package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/htmlindent/internal/logging"
	"github.com/yaklabco/htmlindent/pkg/config"
	"github.com/yaklabco/htmlindent/pkg/indent"
)

// configFilePermissions is the file mode for configuration files.
const configFilePermissions = 0o644

type initFlags struct {
	force  bool
	format *enumValue
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{format: newEnumValue("yaml", "yaml", "toml")}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a .htmlindent.yml (or .htmlindent.toml) file in the current
directory. The file lists every option with its default value and the
built-in inline elements.`,
		Example: `  htmlindent init
  htmlindent init --format toml
  htmlindent init --output site/.htmlindent.yml`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().Var(flags.format, "format", "file format: yaml, toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default .htmlindent.yml or .htmlindent.toml)")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".htmlindent.yml"
		if flags.format.String() == "toml" {
			outputPath = ".htmlindent.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return usageError("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return withExitCode(ExitIOError, fmt.Errorf("stat %s: %w", outputPath, err))
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format:         flags.format.String(),
		InlineElements: indent.DefaultInlineElements(),
	})
	if err != nil {
		return withExitCode(ExitInternalError, fmt.Errorf("generate template: %w", err))
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'htmlindent elements' to see how each element is indented")

	return nil
}
