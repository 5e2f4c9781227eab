package indent

import "strings"

// Pattern identities recorded in LogEntry.Pattern, one per rule.
const (
	PatternBlock       = "<name ...>text</name>"
	PatternDeclaration = "<!...>"
	PatternVoid        = "<void ...>"
	PatternLeaf        = "<leaf .../>"
	PatternOpen        = "<tag ...>"
	PatternClose       = "</tag>"
	PatternSelfClosing = "<tag .../>"
	PatternWhitespace  = "whitespace"
	PatternText        = "text"
)

// rule is one entry of the ordered rule table. match returns the length of
// the prefix of s it accepts, or 0 when it does not apply.
type rule struct {
	pattern string
	kind    MatchKind
	match   func(s string) int
}

// rules are tried in order against the head of the remaining text; the
// first match wins. The order is load-bearing: a generic closing tag must
// be tried before the generic self-closing form.
//
//nolint:gochecknoglobals // Read-only rule table.
var rules = []rule{
	{pattern: PatternBlock, kind: NoIndent, match: matchBlock},
	{pattern: PatternDeclaration, kind: NoIndent, match: matchDeclaration},
	{pattern: PatternVoid, kind: NoIndent, match: matchVoid},
	{pattern: PatternLeaf, kind: NoIndent, match: matchLeaf},
	{pattern: PatternOpen, kind: IndentIncrease, match: matchOpen},
	{pattern: PatternClose, kind: IndentDecrease, match: matchClose},
	{pattern: PatternSelfClosing, kind: IndentDecrease, match: matchSelfClosing},
	{pattern: PatternWhitespace, kind: Discard, match: matchWhitespace},
	{pattern: PatternText, kind: NoIndent, match: matchText},
}

// tokenize consumes protected text and renders one line per non-discarded
// token. Entries are appended to log when it is non-nil.
func tokenize(subject, unit string, log *[]LogEntry) string {
	var out strings.Builder
	out.Grow(len(subject) * 2)

	next := 0
	for subject != "" {
		r, n := firstMatch(subject)
		if n == 0 {
			// Unreachable: the text rule accepts any non-empty subject.
			break
		}

		matched := subject[:n]
		if log != nil {
			*log = append(*log, LogEntry{
				Rule:    r.kind,
				Pattern: r.pattern,
				Subject: subject,
				Match:   matched,
			})
		}
		subject = subject[n:]

		depth := next
		switch r.kind {
		case Discard:
			continue
		case IndentDecrease:
			next--
			depth--
		case IndentIncrease:
			next++
		case NoIndent:
		}

		out.WriteString(strings.Repeat(unit, max(depth, 0)))
		out.WriteString(matched)
		out.WriteByte('\n')
	}

	return out.String()
}

func firstMatch(s string) (*rule, int) {
	for i := range rules {
		if n := rules[i].match(s); n > 0 {
			return &rules[i], n
		}
	}
	return nil, 0
}

// matchBlock accepts an element whose only content is text on one match:
// <name ...>text</name> with a lowercase name.
func matchBlock(s string) int {
	if len(s) < 2 || s[0] != '<' {
		return 0
	}

	nameEnd := 1
	for nameEnd < len(s) && s[nameEnd] >= 'a' && s[nameEnd] <= 'z' {
		nameEnd++
	}
	if nameEnd == 1 {
		return 0
	}

	tagEnd := strings.IndexByte(s[nameEnd:], '>')
	if tagEnd < 0 {
		return 0
	}
	contentStart := nameEnd + tagEnd + 1

	contentLen := strings.IndexByte(s[contentStart:], '<')
	if contentLen < 0 {
		return 0
	}
	closeStart := contentStart + contentLen

	closing := "</" + s[1:nameEnd] + ">"
	if !strings.HasPrefix(s[closeStart:], closing) {
		return 0
	}
	return closeStart + len(closing)
}

// matchDeclaration accepts <!...>: doctype, comments without '>' and the like.
func matchDeclaration(s string) int {
	if !strings.HasPrefix(s, "<!") {
		return 0
	}
	end := strings.IndexByte(s[2:], '>')
	if end < 0 {
		return 0
	}
	return 2 + end + 1
}

// matchVoid accepts a start tag of a void element. The element name must be
// complete, so <colgroup> is not mistaken for <col>.
func matchVoid(s string) int {
	for _, name := range voidElements {
		n := matchNamedTag(s, name)
		if n == 0 || isNameByte(s[1+len(name)]) {
			continue
		}
		return n
	}
	return 0
}

// matchLeaf accepts a self-closed SVG shape. Names match by prefix so that
// animateMotion and animateTransform count as animate.
func matchLeaf(s string) int {
	for _, name := range leafElements {
		n := matchNamedTag(s, name)
		if n == 0 {
			continue
		}
		// The slash must belong to the attribute part, not the name.
		if n-2 >= 1+len(name) && s[n-2] == '/' {
			return n
		}
	}
	return 0
}

// matchNamedTag returns the length of "<" + name + anything up to the first
// '>', or 0.
func matchNamedTag(s, name string) int {
	if len(s) < len(name)+2 || s[0] != '<' || !strings.HasPrefix(s[1:], name) {
		return 0
	}
	rest := 1 + len(name)
	end := strings.IndexByte(s[rest:], '>')
	if end < 0 {
		return 0
	}
	return rest + end + 1
}

// matchOpen accepts '<', one byte other than '/', then up to the first '>'.
func matchOpen(s string) int {
	if len(s) < 3 || s[0] != '<' || s[1] == '/' {
		return 0
	}
	end := strings.IndexByte(s[2:], '>')
	if end < 0 {
		return 0
	}
	return 2 + end + 1
}

// matchClose accepts </...>.
func matchClose(s string) int {
	if !strings.HasPrefix(s, "</") {
		return 0
	}
	end := strings.IndexByte(s[2:], '>')
	if end < 0 {
		return 0
	}
	return 2 + end + 1
}

// matchSelfClosing accepts '<' and at least one byte up to the last "/>" on
// the first line.
func matchSelfClosing(s string) int {
	if len(s) < 4 || s[0] != '<' {
		return 0
	}
	line := s
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		line = s[:nl]
	}
	end := strings.LastIndex(line, "/>")
	if end < 2 {
		return 0
	}
	return end + 2
}

// matchWhitespace accepts a run of ASCII whitespace.
func matchWhitespace(s string) int {
	n := 0
	for n < len(s) && isSpaceByte(s[n]) {
		n++
	}
	return n
}

// matchText accepts a text node: a run of bytes other than '<' that ends on
// a non-space byte. Trailing whitespace is left for matchWhitespace so that
// re-indenting indented output is stable. A '<' that starts no tag is text.
func matchText(s string) int {
	if s == "" {
		return 0
	}

	n := 0
	if s[0] == '<' {
		n = 1
	}
	for n < len(s) && s[n] != '<' {
		n++
	}
	for n > 1 && isSpaceByte(s[n-1]) {
		n--
	}
	return n
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == ':'
}
