package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	tablePadding   = 2
	heavySeparator = "="
	lightSeparator = "-"
)

// ElementRow is one element in the classification table.
type ElementRow struct {
	Name  string
	Class string
	Note  string
}

// Element classes shown in the classification table.
const (
	ClassInline = "inline"
	ClassBlock  = "block"
	ClassVoid   = "void"
	ClassLeaf   = "leaf"
	ClassRaw    = "raw"
)

// FormatElementTable renders element classifications as an aligned table.
func (s *Styles) FormatElementTable(rows []ElementRow) string {
	if len(rows) == 0 {
		return ""
	}

	headers := [3]string{"ELEMENT", "CLASS", "NOTE"}
	widths := [3]int{len(headers[0]), len(headers[1]), len(headers[2])}
	for _, row := range rows {
		widths[0] = max(widths[0], len(row.Name))
		widths[1] = max(widths[1], len(row.Class))
		widths[2] = max(widths[2], len(row.Note))
	}
	total := widths[0] + widths[1] + widths[2] + 2*tablePadding

	var b strings.Builder
	b.WriteString(s.TableHeader.Render(pad(headers[0], widths[0]) + gap() +
		pad(headers[1], widths[1]) + gap() + headers[2]))
	b.WriteString("\n")
	b.WriteString(s.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	b.WriteString("\n")

	prevClass := rows[0].Class
	for _, row := range rows {
		if row.Class != prevClass {
			b.WriteString(s.TableSeparator.Render(strings.Repeat(lightSeparator, total)))
			b.WriteString("\n")
			prevClass = row.Class
		}
		b.WriteString(pad(row.Name, widths[0]) + gap())
		b.WriteString(s.classStyle(row.Class).Render(pad(row.Class, widths[1])))
		if row.Note != "" {
			b.WriteString(gap() + s.Dim.Render(row.Note))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Styles) classStyle(class string) lipgloss.Style {
	switch class {
	case ClassInline:
		return s.Inline
	case ClassVoid:
		return s.Void
	case ClassLeaf:
		return s.Leaf
	default:
		return s.Block
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func gap() string {
	return strings.Repeat(" ", tablePadding)
}
