// Package markdown renders Markdown sources to HTML so they can be indented.
package markdown

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Supported Markdown flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Renderer converts Markdown to HTML with a fixed flavor.
// A Renderer is safe for concurrent use.
type Renderer struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a Renderer for the given flavor.
// Unknown flavors fall back to "commonmark".
func New(flavor string) *Renderer {
	f := flavorOrDefault(flavor)
	return &Renderer{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (r *Renderer) Flavor() string {
	return r.flavor
}

// Render converts source to HTML. Raw HTML in the source is passed through.
func (r *Renderer) Render(ctx context.Context, source []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func flavorOrDefault(flavor string) string {
	if flavor == FlavorGFM {
		return FlavorGFM
	}
	return FlavorCommonMark
}

func newGoldmarkInstance(flavor string) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	}
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
