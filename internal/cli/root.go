// Package cli provides the Cobra command structure for htmlindent.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/htmlindent/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Global flag names.
const (
	flagDebug  = "debug"
	flagConfig = "config"
	flagColor  = "color"
)

// NewRootCommand creates the root htmlindent command with all subcommands.
// Run without a subcommand it behaves like "htmlindent format".
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	color := newEnumValue("auto", "auto", "always", "never")
	flags := &formatFlags{}

	rootCmd := &cobra.Command{
		Use:   "htmlindent [paths...]",
		Short: "Re-indent HTML documents",
		Long: `htmlindent re-indents HTML so that block-level structure gets one
element per line, nested one indentation unit deeper than its parent.

Inline elements stay in the text flow, and the bodies of <script> and
<style> are kept exactly as written. Markdown sources are rendered to
HTML first and written next to the source.`,
		Example: formatExamples,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, flagConfig, "", "path to config file")
	rootCmd.PersistentFlags().Var(color, flagColor, "colorize output: auto, always, never")
	addFormatFlags(rootCmd.Flags(), flags)

	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newElementsCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color.String(), nil).ApplyToCommand(rootCmd)

	return rootCmd
}
