package indent_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/htmlindent/pkg/indent"
)

func TestIndent_NestedParagraphs(t *testing.T) {
	t.Parallel()

	ind := indent.New(indent.WithIndentation("X"))

	got, err := ind.Indent("<p><p></p></p>")
	require.NoError(t, err)

	assert.Equal(t, "<p>\nX<p></p>\n</p>", got)
	assert.Equal(t, "<p>X<p></p></p>", strings.ReplaceAll(got, "\n", ""))
}

func TestIndent_LogsSingleBalancedBlock(t *testing.T) {
	t.Parallel()

	ind := indent.New(indent.WithLogging(true))

	got, err := ind.Indent("<p></p>")
	require.NoError(t, err)
	assert.Equal(t, "<p></p>", got)

	log := ind.Log()
	require.Len(t, log, 1)
	assert.Equal(t, indent.NoIndent, log[0].Rule)
	assert.Equal(t, indent.PatternBlock, log[0].Pattern)
	assert.Equal(t, "<p></p>", log[0].Match)
	assert.Equal(t, "<p></p>", log[0].Subject)
}

func TestIndent_Structure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "nested blocks",
			input: "<div><p>Hello</p></div>",
			want:  "<div>\n    <p>Hello</p>\n</div>",
		},
		{
			name:  "list",
			input: "<ul><li>One</li><li>Two</li></ul>",
			want:  "<ul>\n    <li>One</li>\n    <li>Two</li>\n</ul>",
		},
		{
			name:  "inter-tag whitespace is dropped",
			input: "<div>\n\t<p>Hello</p>\n</div>",
			want:  "<div>\n    <p>Hello</p>\n</div>",
		},
		{
			name:  "doctype does not indent",
			input: "<!DOCTYPE html><html><body></body></html>",
			want:  "<!DOCTYPE html>\n<html>\n    <body></body>\n</html>",
		},
		{
			name:  "void element does not indent its sibling",
			input: "<div><br><p>x</p></div>",
			want:  "<div>\n    <br>\n    <p>x</p>\n</div>",
		},
		{
			name:  "void element with attributes",
			input: `<form><input type="text"><input type="submit"></form>`,
			want:  "<form>\n    <input type=\"text\">\n    <input type=\"submit\">\n</form>",
		},
		{
			name:  "colgroup is not a void col",
			input: "<table><colgroup><col></colgroup></table>",
			want:  "<table>\n    <colgroup>\n        <col>\n    </colgroup>\n</table>",
		},
		{
			name:  "svg leaf shapes",
			input: `<svg><path d="M0"/><rect/></svg>`,
			want:  "<svg>\n    <path d=\"M0\"/>\n    <rect/>\n</svg>",
		},
		{
			name:  "text node between tags",
			input: "<div>Hello<hr>World</div>",
			want:  "<div>\n    Hello\n    <hr>\n    World\n</div>",
		},
		{
			name:  "uppercase empty element is collapsed",
			input: "<DIV></DIV>",
			want:  "<DIV></DIV>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := indent.New().Indent(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndent_DepthFloor(t *testing.T) {
	t.Parallel()

	ind := indent.New()

	got, err := ind.Indent("</p>")
	require.NoError(t, err)
	assert.Equal(t, "</p>", got)

	// Depth below zero is remembered but never rendered.
	got, err = ind.Indent("</div><div><p>x</p></div>")
	require.NoError(t, err)
	assert.Equal(t, "</div>\n<div>\n<p>x</p>\n</div>", got)

	for _, line := range strings.Split(got, "\n") {
		assert.False(t, strings.HasPrefix(line, " "), "line %q is indented", line)
	}
}

func TestIndent_FixedPoint(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<div><p>Hello</p></div>",
		"<html><head><title>T</title></head><body><div><p>a b</p><ul><li>One</li></ul></div></body></html>",
		"<div><script>\n  a();\n</script></div>",
		"<div><p>Some <b>bold</b> text</p></div>",
		"<div><br><img src=\"a.png\"><hr></div>",
		"<!-- c --><section><h1>Title</h1></section>",
	}

	ind := indent.New()
	for _, input := range inputs {
		once, err := ind.Indent(input)
		require.NoError(t, err)

		twice, err := ind.Indent(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestIndent_RawTextIntegrity(t *testing.T) {
	t.Parallel()

	t.Run("body keeps its whitespace", func(t *testing.T) {
		t.Parallel()

		got, err := indent.New().Indent("<div><script>\n  a();  b();\n</script></div>")
		require.NoError(t, err)
		assert.Equal(t, "<div>\n    <script>\n  a();  b();\n    </script>\n</div>", got)
	})

	t.Run("surrounding text is collapsed", func(t *testing.T) {
		t.Parallel()

		got, err := indent.New().Indent("<p>a();  b();</p><style>p {  color: red }</style>")
		require.NoError(t, err)
		assert.Equal(t, "<p>a(); b();</p>\n<style>p {  color: red }</style>", got)
	})

	t.Run("closing tag aligns with custom unit", func(t *testing.T) {
		t.Parallel()

		ind := indent.New(indent.WithIndentation("\t"))
		got, err := ind.Indent("<body><div><style type=\"text/css\">\nb { }\n</style></div></body>")
		require.NoError(t, err)
		assert.Equal(t, "<body>\n\t<div>\n\t\t<style type=\"text/css\">\nb { }\n\t\t</style>\n\t</div>\n</body>", got)
	})

	t.Run("opening tag with collapsed whitespace", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			input string
			want  string
		}{
			{
				input: "<div><script  type=\"a\">\nx();\n</script></div>",
				want:  "<div>\n    <script type=\"a\">\nx();\n    </script>\n</div>",
			},
			{
				input: "<div><style\n media=\"x\">\na{}\n</style></div>",
				want:  "<div>\n    <style media=\"x\">\na{}\n    </style>\n</div>",
			},
		}

		for _, tt := range tests {
			got, err := indent.New().Indent(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	})

	t.Run("several raw spans", func(t *testing.T) {
		t.Parallel()

		got, err := indent.New().Indent("<script>x=1</script><script>y  =  2</script>")
		require.NoError(t, err)
		assert.Equal(t, "<script>x=1</script>\n<script>y  =  2</script>", got)
	})
}

func TestIndent_InlineCollapsing(t *testing.T) {
	t.Parallel()

	ind := indent.New()

	got, err := ind.Indent("<div><b>Bold</b></div>")
	require.NoError(t, err)
	assert.Equal(t, "<div><b>Bold</b></div>", got)

	got, err = ind.Indent(`<ul><li><a href="/x">Link  text</a></li></ul>`)
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n    <li><a href=\"/x\">Link text</a></li>\n</ul>", got)
}

func TestIndent_ReclassifiedElements(t *testing.T) {
	t.Parallel()

	ind := indent.New()
	require.NoError(t, ind.SetElementType("b", indent.Block))

	got, err := ind.Indent("<div><b>Bold</b></div>")
	require.NoError(t, err)
	assert.Equal(t, "<div>\n    <b>Bold</b>\n</div>", got)

	require.NoError(t, ind.SetElementType("B", indent.Inline))
	got, err = ind.Indent("<div><b>Bold</b></div>")
	require.NoError(t, err)
	assert.Equal(t, "<div><b>Bold</b></div>", got)
}

func TestIndent_EmptyInlineSet(t *testing.T) {
	t.Parallel()

	ind := indent.New()
	for _, name := range ind.InlineElements() {
		require.NoError(t, ind.SetElementType(name, indent.Block))
	}
	assert.Empty(t, ind.InlineElements())

	got, err := ind.Indent("<div><span>x</span></div>")
	require.NoError(t, err)
	assert.Equal(t, "<div>\n    <span>x</span>\n</div>", got)
}

func TestIndent_ReservedCodePoints(t *testing.T) {
	t.Parallel()

	_, err := indent.New().Indent("<p>\uE000</p>")
	require.ErrorIs(t, err, indent.ErrInvalidArgument)
}

func TestIndent_LogReplay(t *testing.T) {
	t.Parallel()

	ind := indent.New(indent.WithLogging(true))

	_, err := ind.Indent("<div> <p>Hello</p>\n<br>  text </div>")
	require.NoError(t, err)

	log := ind.Log()
	require.NotEmpty(t, log)

	var replay strings.Builder
	for _, entry := range log {
		assert.True(t, strings.HasPrefix(entry.Subject, entry.Match))
		replay.WriteString(entry.Match)
	}
	assert.Equal(t, log[0].Subject, replay.String())

	// The log is reset on every call.
	_, err = ind.Indent("<p></p>")
	require.NoError(t, err)
	assert.Len(t, ind.Log(), 1)
}

func TestIndent_LogDisabled(t *testing.T) {
	t.Parallel()

	ind := indent.New()
	_, err := ind.Indent("<div><p>x</p></div>")
	require.NoError(t, err)
	assert.Empty(t, ind.Log())
}

func TestIndent_Concurrent(t *testing.T) {
	t.Parallel()

	ind := indent.New()
	want, err := ind.Indent("<div><p>Hello</p><span>x</span></div>")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = ind.Indent("<div><p>Hello</p><span>x</span></div>")
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestSetElementType(t *testing.T) {
	t.Parallel()

	t.Run("block removes and is idempotent", func(t *testing.T) {
		t.Parallel()

		ind := indent.New()
		require.True(t, ind.IsInline("span"))

		require.NoError(t, ind.SetElementType("span", indent.Block))
		require.NoError(t, ind.SetElementType("span", indent.Block))
		assert.False(t, ind.IsInline("span"))
	})

	t.Run("inline adds once", func(t *testing.T) {
		t.Parallel()

		ind := indent.New()
		before := len(ind.InlineElements())

		require.NoError(t, ind.SetElementType("x-badge", indent.Inline))
		require.NoError(t, ind.SetElementType("x-badge", indent.Inline))
		assert.Len(t, ind.InlineElements(), before+1)
		assert.True(t, ind.IsInline("X-Badge"))
	})

	t.Run("unknown kind fails", func(t *testing.T) {
		t.Parallel()

		ind := indent.New()
		err := ind.SetElementType("span", indent.ElementType(99))
		require.ErrorIs(t, err, indent.ErrInvalidArgument)
		assert.True(t, ind.IsInline("span"))
	})

	t.Run("empty name fails", func(t *testing.T) {
		t.Parallel()

		err := indent.New().SetElementType("  ", indent.Inline)
		require.ErrorIs(t, err, indent.ErrInvalidArgument)
	})
}

func TestParseElementType(t *testing.T) {
	t.Parallel()

	typ, err := indent.ParseElementType("Inline")
	require.NoError(t, err)
	assert.Equal(t, indent.Inline, typ)

	typ, err = indent.ParseElementType("block")
	require.NoError(t, err)
	assert.Equal(t, indent.Block, typ)

	_, err = indent.ParseElementType("flex")
	require.ErrorIs(t, err, indent.ErrInvalidArgument)
}

func TestNewFromMap(t *testing.T) {
	t.Parallel()

	t.Run("known keys", func(t *testing.T) {
		t.Parallel()

		ind, err := indent.NewFromMap(map[string]any{
			indent.OptionIndentationCharacter: "\t",
			indent.OptionLogging:              true,
		})
		require.NoError(t, err)
		assert.Equal(t, "\t", ind.Options().Indentation)
		assert.True(t, ind.Options().Logging)
	})

	t.Run("empty map uses defaults", func(t *testing.T) {
		t.Parallel()

		ind, err := indent.NewFromMap(nil)
		require.NoError(t, err)
		assert.Equal(t, indent.DefaultIndentation, ind.Options().Indentation)
		assert.False(t, ind.Options().Logging)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		_, err := indent.NewFromMap(map[string]any{"indent": "  "})
		require.ErrorIs(t, err, indent.ErrInvalidArgument)
		assert.Contains(t, err.Error(), `"indent"`)
	})

	t.Run("wrong value type", func(t *testing.T) {
		t.Parallel()

		_, err := indent.NewFromMap(map[string]any{indent.OptionLogging: "yes"})
		require.ErrorIs(t, err, indent.ErrInvalidArgument)
	})
}

func TestMatchKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NO", indent.NoIndent.String())
	assert.Equal(t, "INCREASE", indent.IndentIncrease.String())
	assert.Equal(t, "DECREASE", indent.IndentDecrease.String())
	assert.Equal(t, "DISCARD", indent.Discard.String())
}
