package pretty

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used for terminal output.
const DefaultHighlightStyle = "monokai"

// Highlight writes HTML source to w with terminal syntax highlighting.
// Unknown style names fall back to chroma's default style.
func Highlight(w io.Writer, source, styleName string) error {
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("tokenise: %w", err)
	}
	if err := formatter.Format(w, style, iterator); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}

// WriteSource writes source to w, highlighted when color is enabled.
func WriteSource(w io.Writer, source string, color bool) error {
	if color {
		return Highlight(w, source, DefaultHighlightStyle)
	}
	_, err := io.WriteString(w, source)
	return err
}
