package markdown_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/htmlindent/pkg/markdown"
)

func TestNew_Flavor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, markdown.FlavorGFM, markdown.New("gfm").Flavor())
	assert.Equal(t, markdown.FlavorCommonMark, markdown.New("commonmark").Flavor())
	assert.Equal(t, markdown.FlavorCommonMark, markdown.New("unknown").Flavor())
}

func TestRender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("heading and paragraph", func(t *testing.T) {
		t.Parallel()

		out, err := markdown.New(markdown.FlavorCommonMark).Render(ctx, []byte("# Title\n\nHello *world*.\n"))
		require.NoError(t, err)
		assert.Contains(t, string(out), `<h1 id="title">Title</h1>`)
		assert.Contains(t, string(out), "<p>Hello <em>world</em>.</p>")
	})

	t.Run("raw html passes through", func(t *testing.T) {
		t.Parallel()

		out, err := markdown.New(markdown.FlavorCommonMark).Render(ctx, []byte("<div class=\"x\">\nkept\n</div>\n"))
		require.NoError(t, err)
		assert.Contains(t, string(out), `<div class="x">`)
	})

	t.Run("tables need gfm", func(t *testing.T) {
		t.Parallel()

		src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")

		gfm, err := markdown.New(markdown.FlavorGFM).Render(ctx, src)
		require.NoError(t, err)
		assert.Contains(t, string(gfm), "<table>")

		plain, err := markdown.New(markdown.FlavorCommonMark).Render(ctx, src)
		require.NoError(t, err)
		assert.NotContains(t, string(plain), "<table>")
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := markdown.New(markdown.FlavorGFM).Render(cctx, []byte("x"))
		require.ErrorIs(t, err, context.Canceled)
	})
}
