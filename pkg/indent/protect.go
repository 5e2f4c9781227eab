package indent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Sentinel delimiters come from the Private Use Area and must not occur in
// input. Each table has its own pair.
const (
	rawOpen     = "\uE000"
	rawClose    = "\uE001"
	inlineOpen  = "\uE002"
	inlineClose = "\uE003"

	reservedRunes = rawOpen + rawClose + inlineOpen + inlineClose
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	// rawTextPattern captures a raw-text element's opening tag, its body and
	// an optional line break that precedes the closing tag. The closing tag
	// itself is left in place.
	rawTextPattern = regexp2.MustCompile(
		`(?<open><(?<name>`+strings.Join(rawTextElements, "|")+`)(?=[\s/>])[^>]*>)`+
			`(?<body>[\s\S]*?)(?<lf>\r?\n|)\s*(?=</\k<name>>)`,
		regexp2.IgnoreCase)

	// multiSpacePattern matches runs of two or more Unicode spaces.
	multiSpacePattern = regexp2.MustCompile(`\s{2,}`, regexp2.None)

	// interTagSpacePattern matches a single space between '>' and '<'.
	interTagSpacePattern = regexp2.MustCompile(`(?<=>)\s(?=<)`, regexp2.None)
)

// rawSpan is a protected raw-text element body.
type rawSpan struct {
	id            int
	openingTag    string // as it reads after whitespace normalization
	inner         string
	trailingBreak string
}

// inlineSpan is a protected inline element.
type inlineSpan struct {
	id   int
	text string
}

// run holds the state of a single Indent call.
type run struct {
	raw    []rawSpan
	inline []inlineSpan
	log    []LogEntry
}

func rawSentinel(id int) string {
	return rawOpen + strconv.Itoa(id) + rawClose
}

func inlineSentinel(id int) string {
	return inlineOpen + strconv.Itoa(id) + inlineClose
}

// protect extracts raw-text bodies and inline spans into the run's tables
// and normalizes whitespace in what remains.
func (r *run) protect(input string, inlinePattern *regexp2.Regexp) (string, error) {
	var tagErr error
	out, err := rawTextPattern.ReplaceFunc(input, func(m regexp2.Match) string {
		open := m.GroupByName("open").String()

		// The tag is bounded by '<' and '>', so normalizing it alone gives
		// the text the rendered output will hold.
		rendered, nerr := normalizeWhitespace(open)
		if nerr != nil && tagErr == nil {
			tagErr = nerr
		}

		span := rawSpan{
			id:            len(r.raw),
			openingTag:    rendered,
			inner:         m.GroupByName("body").String(),
			trailingBreak: m.GroupByName("lf").String(),
		}
		r.raw = append(r.raw, span)
		return open + rawSentinel(span.id)
	}, -1, -1)
	if err == nil {
		err = tagErr
	}
	if err != nil {
		return "", fmt.Errorf("protect raw text: %w", err)
	}

	out, err = normalizeWhitespace(out)
	if err != nil {
		return "", err
	}

	if inlinePattern == nil {
		return out, nil
	}

	out, err = inlinePattern.ReplaceFunc(out, func(m regexp2.Match) string {
		span := inlineSpan{
			id: len(r.inline),
			text: m.GroupByName("open").String() +
				m.GroupByName("text").String() +
				m.GroupByName("close").String(),
		}
		r.inline = append(r.inline, span)
		return inlineSentinel(span.id)
	}, -1, -1)
	if err != nil {
		return "", fmt.Errorf("protect inline elements: %w", err)
	}

	return out, nil
}

// normalizeWhitespace drops tabs, collapses whitespace runs and removes
// whitespace between adjacent tags.
func normalizeWhitespace(s string) (string, error) {
	s = strings.ReplaceAll(s, "\t", "")

	s, err := multiSpacePattern.Replace(s, " ", -1, -1)
	if err != nil {
		return "", fmt.Errorf("collapse whitespace: %w", err)
	}

	s, err = interTagSpacePattern.Replace(s, "", -1, -1)
	if err != nil {
		return "", fmt.Errorf("strip inter-tag whitespace: %w", err)
	}
	return s, nil
}

// compileInlinePattern builds the pattern matching any element in names
// with text-only content, together with the whitespace around it.
func compileInlinePattern(names []string) *regexp2.Regexp {
	if len(names) == 0 {
		return nil
	}

	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = regexp2.Escape(name)
	}

	return regexp2.MustCompile(
		`\s*(?<open><(?<name>`+strings.Join(escaped, "|")+`)(?=[\s/>])[^>]*>)`+
			`(?<text>[^<]*)(?<close></\k<name>>)\s*`,
		regexp2.IgnoreCase)
}

// checkReserved rejects input that already contains sentinel delimiters.
func checkReserved(input string) error {
	if i := strings.IndexAny(input, reservedRunes); i >= 0 {
		return fmt.Errorf("%w: input contains reserved code point at byte %d", ErrInvalidArgument, i)
	}
	return nil
}
