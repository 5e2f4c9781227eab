// Package diff renders line-based unified diffs between a file and its
// re-indented form.
package diff

import (
	"fmt"
	"strings"
)

// LineKind indicates the type of a diff line.
type LineKind int

const (
	// Context is an unchanged line.
	Context LineKind = iota

	// Added is a line only present in the modified content.
	Added

	// Removed is a line only present in the original content.
	Removed
)

// Prefix returns the unified diff marker for the kind.
func (k LineKind) Prefix() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

// Line is a single line of a hunk.
type Line struct {
	Kind    LineKind `json:"kind"`
	Content string   `json:"content"`
}

// Hunk is a group of changes with surrounding context.
type Hunk struct {
	// OriginalStart and ModifiedStart are 1-based line numbers.
	OriginalStart int `json:"original_start"`
	OriginalCount int `json:"original_count"`
	ModifiedStart int `json:"modified_start"`
	ModifiedCount int `json:"modified_count"`

	Lines []Line `json:"lines"`
}

// Header returns the "@@ -a,b +c,d @@" line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// Diff is a unified diff between two versions of a file.
type Diff struct {
	Path      string `json:"path"`
	Hunks     []Hunk `json:"hunks"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// ContextLines is the number of unchanged lines shown around a change.
const ContextLines = 3

// maxTableCells bounds the LCS table; larger inputs are diffed as a single
// replacement hunk.
const maxTableCells = 4 << 20

// Generate computes the diff between original and modified. It returns nil
// when the contents have the same lines.
func Generate(path string, original, modified []byte) *Diff {
	origLines := splitLines(original)
	modLines := splitLines(modified)

	ops := editScript(origLines, modLines)

	d := &Diff{Path: path}
	for _, op := range ops {
		switch op.Kind {
		case Added:
			d.Additions++
		case Removed:
			d.Deletions++
		}
	}
	if d.Additions == 0 && d.Deletions == 0 {
		return nil
	}

	d.Hunks = group(ops)
	return d
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String returns the diff in unified format with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", path)
	fmt.Fprintf(&sb, "+++ b/%s\n", path)
	for _, hunk := range d.Hunks {
		sb.WriteString(hunk.Header())
		sb.WriteByte('\n')
		for _, line := range hunk.Lines {
			sb.WriteString(line.Kind.Prefix())
			sb.WriteString(line.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// editScript returns the full line sequence of the diff, unchanged lines
// included, using a longest-common-subsequence table.
func editScript(orig, mod []string) []Line {
	// Common prefix and suffix are never part of the table.
	prefix := 0
	for prefix < len(orig) && prefix < len(mod) && orig[prefix] == mod[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(orig)-prefix && suffix < len(mod)-prefix &&
		orig[len(orig)-1-suffix] == mod[len(mod)-1-suffix] {
		suffix++
	}

	ops := make([]Line, 0, len(orig)+len(mod))
	for _, l := range orig[:prefix] {
		ops = append(ops, Line{Kind: Context, Content: l})
	}

	a := orig[prefix : len(orig)-suffix]
	b := mod[prefix : len(mod)-suffix]
	ops = append(ops, middle(a, b)...)

	for _, l := range orig[len(orig)-suffix:] {
		ops = append(ops, Line{Kind: Context, Content: l})
	}
	return ops
}

func middle(a, b []string) []Line {
	ops := make([]Line, 0, len(a)+len(b))

	if len(a) == 0 || len(b) == 0 || (len(a)+1)*(len(b)+1) > maxTableCells {
		for _, l := range a {
			ops = append(ops, Line{Kind: Removed, Content: l})
		}
		for _, l := range b {
			ops = append(ops, Line{Kind: Added, Content: l})
		}
		return ops
	}

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Line{Kind: Context, Content: a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, Line{Kind: Removed, Content: a[i]})
			i++
		default:
			ops = append(ops, Line{Kind: Added, Content: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Line{Kind: Removed, Content: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Line{Kind: Added, Content: b[j]})
	}
	return ops
}

// group cuts the edit script into hunks, merging changes separated by at
// most 2*ContextLines unchanged lines.
func group(ops []Line) []Hunk {
	// Line numbers before each op.
	origPos := make([]int, len(ops))
	modPos := make([]int, len(ops))
	origLine, modLine := 1, 1
	var changes []int
	for idx, op := range ops {
		origPos[idx], modPos[idx] = origLine, modLine
		if op.Kind != Added {
			origLine++
		}
		if op.Kind != Removed {
			modLine++
		}
		if op.Kind != Context {
			changes = append(changes, idx)
		}
	}

	var hunks []Hunk
	for first := 0; first < len(changes); {
		last := first
		for last+1 < len(changes) && changes[last+1]-changes[last]-1 <= 2*ContextLines {
			last++
		}

		start := max(changes[first]-ContextLines, 0)
		end := min(changes[last]+ContextLines+1, len(ops))
		hunks = append(hunks, newHunk(ops[start:end], origPos[start], modPos[start]))

		first = last + 1
	}
	return hunks
}

func newHunk(lines []Line, origStart, modStart int) Hunk {
	hunk := Hunk{
		OriginalStart: origStart,
		ModifiedStart: modStart,
		Lines:         lines,
	}
	for _, line := range lines {
		if line.Kind != Added {
			hunk.OriginalCount++
		}
		if line.Kind != Removed {
			hunk.ModifiedCount++
		}
	}

	// An empty side is addressed by the line before it.
	if hunk.OriginalCount == 0 {
		hunk.OriginalStart--
	}
	if hunk.ModifiedCount == 0 {
		hunk.ModifiedStart--
	}
	return hunk
}
