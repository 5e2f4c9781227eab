package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/htmlindent/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help.
type HelpStyles struct {
	Command    lipgloss.Style
	Heading    lipgloss.Style
	Subcommand lipgloss.Style
	Flag       lipgloss.Style
	Example    lipgloss.Style
	Dim        lipgloss.Style
}

// NewHelpStyles creates help styles, plain when color is disabled.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &HelpStyles{
			Command: plain, Heading: plain, Subcommand: plain,
			Flag: plain, Example: plain, Dim: plain,
		}
	}
	return &HelpStyles{
		Command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Example:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help for Cobra commands.
type HelpFormatter struct {
	colorMode string
	writer    io.Writer
}

// NewHelpFormatter creates a help formatter. colorMode is the default used
// when the command has no --color flag of its own.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode, writer: writer}
}

const helpTemplate = `{{with (or .Long .Short)}}{{ trimTrailing . }}

{{end}}{{ styleHeading "Usage:" }}{{if .Runnable}}
  {{ styleCommand .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ styleCommand .CommandPath }} [command]{{end}}
{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ styleHeading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ flagUsages .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ flagUsages .InheritedFlags }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

// ApplyToCommand installs the styled help on cmd. Subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	render := func(command *cobra.Command) error {
		styles := NewHelpStyles(pretty.IsColorEnabled(h.resolveColorMode(command), h.output(command)))
		tmpl, err := template.New("help").Funcs(template.FuncMap{
			"styleCommand":    styles.Command.Render,
			"styleHeading":    styles.Heading.Render,
			"styleSubcommand": styles.Subcommand.Render,
			"styleExample":    styles.Example.Render,
			"flagUsages":      func(fs *pflag.FlagSet) string { return flagUsages(fs, styles) },
			"rpad":            rpad,
			"trimTrailing":    trimTrailingWhitespace,
		}).Parse(helpTemplate)
		if err != nil {
			return fmt.Errorf("parse help template: %w", err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) resolveColorMode(cmd *cobra.Command) string {
	if flag := cmd.Flags().Lookup(flagColor); flag != nil {
		return flag.Value.String()
	}
	return h.colorMode
}

func (h *HelpFormatter) output(cmd *cobra.Command) io.Writer {
	if h.writer != nil {
		return h.writer
	}
	return cmd.OutOrStdout()
}

// flagUsages lays out visible flags in two aligned columns.
func flagUsages(fs *pflag.FlagSet, styles *HelpStyles) string {
	type row struct {
		plainWidth int
		name       string
		usage      string
	}

	var rows []row
	width := 0
	fs.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}

		varname, usage := pflag.UnquoteUsage(flag)
		short := "    "
		styledShort := short
		if flag.Shorthand != "" {
			short = "-" + flag.Shorthand + ", "
			styledShort = styles.Flag.Render("-"+flag.Shorthand) + ", "
		}

		plain := short + "--" + flag.Name
		styled := styledShort + styles.Flag.Render("--"+flag.Name)
		if varname != "" {
			plain += " " + varname
			styled += " " + styles.Dim.Render(varname)
		}

		if flag.DefValue != "" && flag.DefValue != "false" && flag.DefValue != "[]" && flag.DefValue != "0" {
			usage += styles.Dim.Render(fmt.Sprintf(" (default %q)", flag.DefValue))
		}

		rows = append(rows, row{plainWidth: len(plain), name: styled, usage: usage})
		width = max(width, len(plain))
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, "  "+r.name+strings.Repeat(" ", width-r.plainWidth)+"   "+r.usage)
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
