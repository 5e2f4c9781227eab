// Package langdetect decides whether a source file is HTML or Markdown.
// It uses go-enry for extension lookups, binary sniffing and, as a last
// resort, its content classifier.
package langdetect

import (
	"bytes"

	"github.com/go-enry/go-enry/v2"
)

// Kind is the markup language of a source file.
type Kind string

const (
	// KindHTML covers HTML, XHTML and SVG.
	KindHTML Kind = "html"

	// KindMarkdown is Markdown that must be rendered before indenting.
	KindMarkdown Kind = "markdown"

	// KindBinary is content that must not be touched.
	KindBinary Kind = "binary"
)

// enry language names mapped to kinds.
//
//nolint:gochecknoglobals // Read-only lookup table.
var languageKinds = map[string]Kind{
	"HTML":       KindHTML,
	"HTML+ERB":   KindHTML,
	"HTML+PHP":   KindHTML,
	"HTML+Razor": KindHTML,
	"SVG":        KindHTML,
	"XML":        KindHTML,
	"Vue":        KindHTML,
	"Markdown":   KindMarkdown,
	"MDX":        KindMarkdown,
	"RMarkdown":  KindMarkdown,
}

// classifierCandidates are the languages the content classifier chooses from.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{"HTML", "Markdown"}

// htmlMarkers are lowercase prefixes that identify a document as HTML.
//
//nolint:gochecknoglobals // Read-only lookup table.
var htmlMarkers = [][]byte{
	[]byte("<!doctype html"),
	[]byte("<html"),
	[]byte("<head"),
	[]byte("<body"),
	[]byte("<svg"),
	[]byte("<?xml"),
}

// Detect returns the kind of the named file's content. The file name is
// consulted first; content sniffing decides for unknown extensions.
func Detect(filename string, content []byte) Kind {
	if enry.IsBinary(content) {
		return KindBinary
	}

	if filename != "" {
		// Extensions such as .md are shared with unrelated languages, so
		// every candidate is considered.
		for _, lang := range enry.GetLanguagesByExtension(filename, content, nil) {
			if kind, ok := languageKinds[lang]; ok {
				return kind
			}
		}
	}

	return DetectContent(content)
}

// DetectContent sniffs content alone. It is used for stdin.
func DetectContent(content []byte) Kind {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return KindHTML
	}

	lower := bytes.ToLower(trimmed[:min(len(trimmed), 512)])
	for _, marker := range htmlMarkers {
		if bytes.HasPrefix(lower, marker) {
			return KindHTML
		}
	}

	// Markdown never starts with a tag in practice; HTML nearly always does.
	if trimmed[0] == '<' {
		return KindHTML
	}
	if isMarkdownHeading(trimmed) {
		return KindMarkdown
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe {
		if kind, ok := languageKinds[lang]; ok {
			return kind
		}
	}
	return KindMarkdown
}

// IsVendored reports whether path lies in a dependency or build directory
// such as node_modules.
func IsVendored(path string) bool {
	return enry.IsVendor(path)
}

func isMarkdownHeading(trimmed []byte) bool {
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	return level > 0 && level <= 6 && level < len(trimmed) && trimmed[level] == ' '
}
