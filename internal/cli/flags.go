package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/yaklabco/htmlindent/pkg/config"
)

// enumValue is a string flag restricted to a fixed set of values.
type enumValue struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(def string, allowed ...string) *enumValue {
	return &enumValue{value: def, allowed: allowed}
}

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Set(s string) error {
	if !slices.Contains(e.allowed, s) {
		return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
	}
	e.value = s
	return nil
}

func (e *enumValue) Type() string { return "string" }

// formatFlags holds the flags shared by the format and watch commands.
type formatFlags struct {
	write     bool
	check     bool
	diff      bool
	indent    string
	tabs      bool
	inline    []string
	block     []string
	input     *enumValue
	flavor    *enumValue
	jobs      int
	ignore    []string
	log       bool
	noBackups bool
	format    *enumValue
	verbose   bool
}

func addFormatFlags(fs *pflag.FlagSet, f *formatFlags) {
	f.input = newEnumValue(string(config.InputAuto),
		string(config.InputAuto), string(config.InputHTML), string(config.InputMarkdown))
	f.flavor = newEnumValue(string(config.FlavorCommonMark),
		string(config.FlavorCommonMark), string(config.FlavorGFM))
	f.format = newEnumValue(string(config.FormatText),
		string(config.FormatText), string(config.FormatJSON), string(config.FormatDiff))

	fs.BoolVarP(&f.write, "write", "w", false, "rewrite files in place")
	fs.BoolVar(&f.check, "check", false, "exit 1 when any file would change")
	fs.BoolVar(&f.diff, "diff", false, "print a unified diff for each changed file")
	fs.StringVar(&f.indent, "indent", "", `indentation unit: a number of spaces, "tab", or a literal string`)
	fs.BoolVar(&f.tabs, "tabs", false, "indent with tabs")
	fs.StringSliceVar(&f.inline, "inline", nil, "additional elements to keep inline")
	fs.StringSliceVar(&f.block, "block", nil, "elements to treat as block")
	fs.Var(f.input, "input", "input kind: auto, html, markdown")
	fs.Var(f.flavor, "flavor", "Markdown flavor: commonmark, gfm")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	fs.StringSliceVar(&f.ignore, "ignore", nil, "glob patterns to ignore")
	fs.BoolVar(&f.log, "log", false, "print the tokenizer log of a stdin run to stderr")
	fs.BoolVar(&f.noBackups, "no-backups", false, "disable backups when writing")
	fs.Var(f.format, "format", "output format: text, json, diff")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "list unchanged files too")
}

// cliConfig turns explicitly set flags into the CLI configuration layer.
func (f *formatFlags) cliConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := &config.Config{
		Write:     f.write,
		Check:     f.check,
		Diff:      f.diff,
		Logging:   f.log,
		Inline:    f.inline,
		Block:     f.block,
		Ignore:    f.ignore,
		Jobs:      f.jobs,
		NoBackups: f.noBackups,
	}

	if fs.Changed("indent") {
		unit, err := config.ParseIndentation(f.indent)
		if err != nil {
			return nil, usageError("invalid --indent: %w", err)
		}
		if unit == "" {
			return nil, usageError("invalid --indent: empty indentation")
		}
		cfg.Indentation = unit
	}
	if f.tabs {
		if fs.Changed("indent") {
			return nil, usageError("--tabs and --indent are mutually exclusive")
		}
		cfg.Indentation = "\t"
	}
	if fs.Changed("input") {
		cfg.Input = config.InputKind(f.input.String())
	}
	if fs.Changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor.String())
	}
	if fs.Changed("format") {
		cfg.Format = config.OutputFormat(f.format.String())
	}
	return cfg, nil
}
