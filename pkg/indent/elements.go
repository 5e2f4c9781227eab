package indent

import (
	"fmt"
	"slices"
	"strings"
)

// ElementType classifies how an element participates in indentation.
type ElementType int

const (
	// Block elements are rendered on their own line and contribute to depth.
	Block ElementType = iota + 1

	// Inline elements are kept inside the surrounding text flow and are never
	// broken onto their own line.
	Inline
)

// String returns the lowercase name of the element type.
func (t ElementType) String() string {
	switch t {
	case Block:
		return "block"
	case Inline:
		return "inline"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// ParseElementType parses "block" or "inline" (case-insensitive).
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block":
		return Block, nil
	case "inline":
		return Inline, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized element type %q", ErrInvalidArgument, s)
	}
}

// defaultInlineElements are the inline text semantics elements.
//
//nolint:gochecknoglobals // Read-only lookup table.
var defaultInlineElements = []string{
	"b", "big", "i", "s", "small", "tt", "q", "u", "abbr", "acronym", "cite",
	"code", "data", "dfn", "em", "kbd", "mark", "strong", "samp", "time", "var",
	"a", "bdi", "bdo", "br", "img", "span", "sub", "sup", "wbr",
}

// voidElements have no closing tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var voidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta",
	"source", "track", "wbr",
}

// leafElements are SVG shapes that are written self-closed and never have
// children worth indenting.
//
//nolint:gochecknoglobals // Read-only lookup table.
var leafElements = []string{
	"animate", "circle", "ellipse", "line", "path", "polygon", "polyline",
	"rect", "stop", "use",
}

// rawTextElements keep their body byte for byte.
//
//nolint:gochecknoglobals // Read-only lookup table.
var rawTextElements = []string{"script", "style"}

// DefaultInlineElements returns a copy of the default inline element set.
func DefaultInlineElements() []string {
	return slices.Clone(defaultInlineElements)
}

// VoidElements returns the elements treated as having no closing tag.
func VoidElements() []string {
	return slices.Clone(voidElements)
}

// LeafElements returns the self-closing elements that never change depth.
func LeafElements() []string {
	return slices.Clone(leafElements)
}

// RawTextElements returns the elements whose body is never re-indented.
func RawTextElements() []string {
	return slices.Clone(rawTextElements)
}

// SetElementType moves name into or out of the inline set.
// Block removes the name (no-op when absent); Inline adds it (idempotent).
// Any other type fails with ErrInvalidArgument and leaves the set untouched.
func (ind *Indenter) SetElementType(name string, typ ElementType) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("%w: empty element name", ErrInvalidArgument)
	}

	ind.mu.Lock()
	defer ind.mu.Unlock()

	switch typ {
	case Block:
		if _, ok := ind.inline[name]; !ok {
			return nil
		}
		delete(ind.inline, name)
	case Inline:
		if _, ok := ind.inline[name]; ok {
			return nil
		}
		ind.inline[name] = struct{}{}
	default:
		return fmt.Errorf("%w: unrecognized element type %d", ErrInvalidArgument, int(typ))
	}

	// The inline pattern is rebuilt lazily on the next call.
	ind.inlinePattern = nil
	return nil
}

// IsInline reports whether name is currently classified inline.
func (ind *Indenter) IsInline(name string) bool {
	ind.mu.RLock()
	defer ind.mu.RUnlock()

	_, ok := ind.inline[strings.ToLower(name)]
	return ok
}

// InlineElements returns the current inline set, sorted.
func (ind *Indenter) InlineElements() []string {
	ind.mu.RLock()
	defer ind.mu.RUnlock()

	return sortedNames(ind.inline)
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
