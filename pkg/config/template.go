package config

import (
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string

	// InlineElements lists the default inline set, shown as a comment.
	InlineElements []string
}

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	inline := strings.Join(opts.InlineElements, ", ")

	switch opts.Format {
	case "", TemplateYAML:
		return []byte(fmt.Sprintf(yamlTemplate, DefaultTemplateHeader(), inline)), nil
	case TemplateTOML:
		return []byte(fmt.Sprintf(tomlTemplate, DefaultTemplateHeader(), inline)), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q (want yaml or toml)", opts.Format)
	}
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# htmlindent configuration
# See: https://github.com/yaklabco/htmlindent`
}

const yamlTemplate = `%s

# String repeated once per nesting level.
indentation: "    "

# Record every tokenizer match and verify the matches reproduce the input.
logging: false

# How files are read: auto, html or markdown.
input: auto

# Markdown flavor for Markdown input: commonmark or gfm.
flavor: commonmark

# Elements kept inside the text flow in addition to the defaults:
#   %s
# inline:
#   - x-badge

# Default inline elements to treat as blocks instead.
# block:
#   - img

# File extensions treated as HTML.
# extensions: [".html", ".htm", ".xhtml", ".svg"]

# File patterns to ignore (glob patterns).
# ignore:
#   - "node_modules/**"
#   - "dist/**"

# Backups written before a file is rewritten.
backups:
  enabled: true
  mode: sidecar
`

const tomlTemplate = `%s

# String repeated once per nesting level.
indentation = "    "

# Record every tokenizer match and verify the matches reproduce the input.
logging = false

# How files are read: auto, html or markdown.
input = "auto"

# Markdown flavor for Markdown input: commonmark or gfm.
flavor = "commonmark"

# Elements kept inside the text flow in addition to the defaults:
#   %s
# inline = ["x-badge"]

# Default inline elements to treat as blocks instead.
# block = ["img"]

# File extensions treated as HTML.
# extensions = [".html", ".htm", ".xhtml", ".svg"]

# File patterns to ignore (glob patterns).
# ignore = ["node_modules/**", "dist/**"]

# Backups written before a file is rewritten.
[backups]
enabled = true
mode = "sidecar"
`
