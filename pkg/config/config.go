// Package config defines core configuration types for htmlindent.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// BackupsConfig controls backup behavior when rewriting files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode"    toml:"mode"` // "sidecar"
}

// BackupModeSidecar writes the backup next to the original file.
const BackupModeSidecar = "sidecar"

// OutputFormat specifies how results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// InputKind selects how source files are interpreted.
type InputKind string

const (
	// InputAuto decides per file from its extension and content.
	InputAuto InputKind = "auto"
	// InputHTML treats every file as HTML.
	InputHTML InputKind = "html"
	// InputMarkdown renders every file from Markdown to HTML first.
	InputMarkdown InputKind = "markdown"
)

// IsValid returns true if the input kind is known.
func (k InputKind) IsValid() bool {
	switch k {
	case InputAuto, InputHTML, InputMarkdown:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor used when rendering Markdown input.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is known.
func (f Flavor) IsValid() bool {
	return f == FlavorCommonMark || f == FlavorGFM
}

// DefaultIndentation is four spaces.
const DefaultIndentation = "    "

// DefaultExtensions are the file extensions treated as HTML.
//
//nolint:gochecknoglobals // Read-only default list.
var DefaultExtensions = []string{".html", ".htm", ".xhtml", ".svg"}

// MarkdownExtensions are the file extensions treated as Markdown.
//
//nolint:gochecknoglobals // Read-only default list.
var MarkdownExtensions = []string{".md", ".markdown"}

// Config is the root configuration structure for htmlindent.
type Config struct {
	// Indentation is the string repeated once per nesting level.
	Indentation string `yaml:"indentation" toml:"indentation"`

	// Logging records the tokenizer's matches and verifies them.
	Logging bool `yaml:"logging" toml:"logging"`

	// Inline lists additional elements to keep in the text flow.
	Inline []string `yaml:"inline,omitempty" toml:"inline,omitempty"`

	// Block lists elements to remove from the inline set.
	Block []string `yaml:"block,omitempty" toml:"block,omitempty"`

	// Extensions overrides the file extensions treated as HTML.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Input selects how files are interpreted.
	Input InputKind `yaml:"input" toml:"input"`

	// Flavor is the Markdown flavor for Markdown input.
	Flavor Flavor `yaml:"flavor" toml:"flavor"`

	// Backups configures backup behavior when writing.
	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// CLI-level options (not persisted to config files).

	// Write rewrites files in place.
	Write bool `yaml:"-" toml:"-"`

	// Check reports files that would change without writing them.
	Check bool `yaml:"-" toml:"-"`

	// Diff prints a unified diff for each changed file.
	Diff bool `yaml:"-" toml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Indentation: DefaultIndentation,
		Logging:     false,
		Input:       InputAuto,
		Flavor:      FlavorCommonMark,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    BackupModeSidecar,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// EffectiveExtensions returns the extensions discovery should match for the
// configured input kind, lowercased and with a leading dot.
func (c *Config) EffectiveExtensions() []string {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if c.Input != InputHTML {
		exts = append(slices.Clone(exts), MarkdownExtensions...)
	}

	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

// ParseIndentation accepts "tab", "tabs", a number of spaces, or a literal
// indentation string.
func ParseIndentation(value string) (string, error) {
	switch strings.ToLower(value) {
	case "tab", "tabs", `\t`:
		return "\t", nil
	}

	if spaces, err := strconv.Atoi(value); err == nil {
		if spaces < 0 || spaces > maxIndentWidth {
			return "", fmt.Errorf("indentation width %d out of range 0-%d", spaces, maxIndentWidth)
		}
		return strings.Repeat(" ", spaces), nil
	}

	return value, nil
}

const maxIndentWidth = 16
