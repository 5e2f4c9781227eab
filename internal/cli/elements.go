package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/htmlindent/internal/ui/pretty"
	"github.com/yaklabco/htmlindent/pkg/config"
	"github.com/yaklabco/htmlindent/pkg/format"
	"github.com/yaklabco/htmlindent/pkg/indent"
)

func newElementsCommand() *cobra.Command {
	flags := &formatFlags{}
	outputFormat := newEnumValue("text", "text", "json")

	cmd := &cobra.Command{
		Use:   "elements",
		Short: "List how elements are classified",
		Long: `List the inline, void, leaf and raw-text elements in effect after
configuration is applied, plus any elements forced to block.

Inline elements stay in the text flow. Void and leaf elements sit on their
own line without changing the depth. Raw-text element bodies are kept
verbatim. Every other element is block-level.`,
		Example: `  htmlindent elements
  htmlindent elements --inline button --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCfg, err := flags.cliConfig(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig(commandContext(cmd), cmd, cliCfg)
			if err != nil {
				return err
			}
			return runElements(cmd.OutOrStdout(), cfg, outputFormat.String(), colorMode(cmd))
		},
	}

	cmd.Flags().StringSliceVar(&flags.inline, "inline", nil, "additional elements to keep inline")
	cmd.Flags().StringSliceVar(&flags.block, "block", nil, "elements to treat as block")
	cmd.Flags().Var(outputFormat, "format", "output format: text, json")

	return cmd
}

// elementList is the JSON shape of the elements command.
type elementList struct {
	Inline  []string `json:"inline"`
	Block   []string `json:"block"`
	Void    []string `json:"void"`
	Leaf    []string `json:"leaf"`
	RawText []string `json:"rawText"`
}

func classify(cfg *config.Config) (*elementList, error) {
	ind, err := format.NewIndenter(cfg)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	block := make([]string, 0, len(cfg.Block))
	for _, name := range cfg.Block {
		name = strings.ToLower(strings.TrimSpace(name))
		if !ind.IsInline(name) && !slices.Contains(block, name) {
			block = append(block, name)
		}
	}
	slices.Sort(block)

	return &elementList{
		Inline:  ind.InlineElements(),
		Block:   block,
		Void:    indent.VoidElements(),
		Leaf:    indent.LeafElements(),
		RawText: indent.RawTextElements(),
	}, nil
}

func runElements(w io.Writer, cfg *config.Config, outputFormat, color string) error {
	list, err := classify(cfg)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(list); err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("encode elements: %w", err))
		}
		return nil
	}

	var rows []pretty.ElementRow
	addRows := func(names []string, class, note string) {
		for _, name := range names {
			rows = append(rows, pretty.ElementRow{Name: name, Class: class, Note: note})
		}
	}
	addRows(list.Inline, pretty.ClassInline, "")
	addRows(list.Block, pretty.ClassBlock, "configured")
	addRows(list.Void, pretty.ClassVoid, "no closing tag")
	addRows(list.Leaf, pretty.ClassLeaf, "self-closing")
	addRows(list.RawText, pretty.ClassRaw, "body kept verbatim")

	styles := pretty.NewStyles(pretty.IsColorEnabled(color, w))
	if _, err := io.WriteString(w, styles.FormatElementTable(rows)); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write elements: %w", err))
	}
	return nil
}
