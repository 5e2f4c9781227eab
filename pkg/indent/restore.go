package indent

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// emptyPairPattern matches an opening tag followed by whitespace only and
// its closing tag.
//
//nolint:gochecknoglobals // Compiled once, read-only.
var emptyPairPattern = regexp2.MustCompile(`(?<open><(?<name>\w+)\b[^>]*>)\s+(?<close></\k<name>>)`, regexp2.None)

// restore puts protected spans back into the rendered output and trims it.
func (r *run) restore(rendered string) (string, error) {
	out, err := emptyPairPattern.Replace(rendered, "${open}${close}", -1, -1)
	if err != nil {
		return "", fmt.Errorf("collapse empty elements: %w", err)
	}

	out, pending := restoreRaw(out, r.raw)
	out = restoreInline(out, r.inline)

	// A raw span can end up inside an inline span when a raw-text element
	// is itself classified inline; it only becomes visible now.
	if len(pending) > 0 {
		out, pending = restoreRaw(out, pending)
		if len(pending) > 0 {
			return "", fmt.Errorf("%w: raw-text span %d has no sentinel in the output",
				ErrInternalConsistency, pending[0].id)
		}
	}

	return strings.TrimSpace(out), nil
}

// restoreRaw replaces raw-text sentinels with the captured bodies. A body
// that ended with a line break gets the break back, followed by the
// indentation of the line holding the opening tag so that the closing tag
// lines up with it. Spans whose sentinel is not found are returned.
func restoreRaw(out string, spans []rawSpan) (string, []rawSpan) {
	var pending []rawSpan
	for _, span := range spans {
		sentinel := rawSentinel(span.id)
		at := strings.Index(out, sentinel)
		if at < 0 {
			pending = append(pending, span)
			continue
		}

		replacement := span.inner
		if span.trailingBreak != "" {
			replacement += span.trailingBreak + lineIndentation(out, at, span.openingTag)
		}
		out = out[:at] + replacement + out[at+len(sentinel):]
	}
	return out, pending
}

// restoreInline replaces inline sentinels with the captured spans verbatim.
func restoreInline(out string, spans []inlineSpan) string {
	for _, span := range spans {
		out = strings.Replace(out, inlineSentinel(span.id), span.text, 1)
	}
	return out
}

// lineIndentation returns what precedes the opening tag on its line, which
// is the rendered indentation. The sentinel is at byte offset at. When the
// tag does not sit right before the sentinel, the leading whitespace of the
// sentinel's line is used.
func lineIndentation(s string, at int, openingTag string) string {
	if strings.HasSuffix(s[:at], openingTag) {
		tagStart := at - len(openingTag)
		lineStart := strings.LastIndexByte(s[:tagStart], '\n') + 1
		return s[lineStart:tagStart]
	}

	line := s[strings.LastIndexByte(s[:at], '\n')+1 : at]
	return line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
}
