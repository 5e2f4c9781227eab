package diff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/htmlindent/pkg/diff"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for identical content", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, diff.Generate("a.html", nil, nil))
		assert.Nil(t, diff.Generate("a.html", []byte("<p>x</p>\n"), []byte("<p>x</p>\n")))
	})

	t.Run("minified file becomes indented", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("index.html",
			[]byte("<div><p>x</p></div>\n"),
			[]byte("<div>\n    <p>x</p>\n</div>\n"))
		require.NotNil(t, d)
		require.True(t, d.HasChanges())

		assert.Equal(t, 3, d.Additions)
		assert.Equal(t, 1, d.Deletions)
		require.Len(t, d.Hunks, 1)
		assert.Equal(t, "@@ -1,1 +1,3 @@", d.Hunks[0].Header())

		want := strings.Join([]string{
			"--- a/index.html",
			"+++ b/index.html",
			"@@ -1,1 +1,3 @@",
			"-<div><p>x</p></div>",
			"+<div>",
			"+    <p>x</p>",
			"+</div>",
			"",
		}, "\n")
		assert.Equal(t, want, d.String())
	})

	t.Run("context and separate hunks", func(t *testing.T) {
		t.Parallel()

		var orig, mod []string
		for i := range 20 {
			line := "line" + string(rune('a'+i))
			orig = append(orig, line)
			mod = append(mod, line)
		}
		mod[1] = "changed1"
		mod[18] = "changed18"

		d := diff.Generate("f.html",
			[]byte(strings.Join(orig, "\n")),
			[]byte(strings.Join(mod, "\n")))
		require.NotNil(t, d)
		require.Len(t, d.Hunks, 2)

		first := d.Hunks[0]
		assert.Equal(t, 1, first.OriginalStart)
		assert.Equal(t, 5, first.OriginalCount)
		assert.Equal(t, 5, first.ModifiedCount)

		second := d.Hunks[1]
		assert.Equal(t, 16, second.OriginalStart)
		assert.Equal(t, 5, second.OriginalCount)
	})

	t.Run("close changes share a hunk", func(t *testing.T) {
		t.Parallel()

		orig := "a\nb\nc\nd\ne\nf\ng\nh\n"
		mod := "a\nB\nc\nd\ne\nf\nG\nh\n"

		d := diff.Generate("f.html", []byte(orig), []byte(mod))
		require.NotNil(t, d)
		assert.Len(t, d.Hunks, 1)
		assert.Equal(t, 2, d.Additions)
		assert.Equal(t, 2, d.Deletions)
	})

	t.Run("new file", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("new.html", nil, []byte("<p>x</p>\n"))
		require.NotNil(t, d)
		assert.Equal(t, "@@ -0,0 +1,1 @@", d.Hunks[0].Header())
	})
}

func TestDiff_StringNil(t *testing.T) {
	t.Parallel()

	var d *diff.Diff
	assert.False(t, d.HasChanges())
	assert.Empty(t, d.String())
}

func FuzzGenerate(f *testing.F) {
	f.Add([]byte("<div><p>x</p></div>"), []byte("<div>\n    <p>x</p>\n</div>\n"))
	f.Add([]byte("a\nb\nc"), []byte("c\nb\na"))
	f.Add([]byte(""), []byte("x"))

	f.Fuzz(func(t *testing.T, original, modified []byte) {
		d := diff.Generate("fuzz.html", original, modified)
		if d == nil {
			return
		}

		// Applying the hunks' sides must account for every line.
		var removed, added int
		for _, h := range d.Hunks {
			for _, l := range h.Lines {
				switch l.Kind {
				case diff.Removed:
					removed++
				case diff.Added:
					added++
				}
			}
		}
		if removed != d.Deletions || added != d.Additions {
			t.Fatalf("hunks hold %d/%d changes, diff reports %d/%d", removed, added, d.Deletions, d.Additions)
		}
	})
}
