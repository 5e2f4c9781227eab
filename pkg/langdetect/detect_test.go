package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/htmlindent/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		content  string
		expected langdetect.Kind
	}{
		{name: "html extension", filename: "index.html", content: "# not markdown", expected: langdetect.KindHTML},
		{name: "htm extension", filename: "page.htm", content: "<p>x</p>", expected: langdetect.KindHTML},
		{name: "svg extension", filename: "logo.svg", content: "<svg></svg>", expected: langdetect.KindHTML},
		{name: "markdown extension", filename: "README.md", content: "<p>raw html</p>", expected: langdetect.KindMarkdown},
		{name: "doctype without name", content: "<!DOCTYPE html><html></html>", expected: langdetect.KindHTML},
		{name: "fragment", content: "  <div><p>x</p></div>", expected: langdetect.KindHTML},
		{name: "heading", content: "# Title\n\nSome *text*.", expected: langdetect.KindMarkdown},
		{name: "empty", content: "", expected: langdetect.KindHTML},
		{name: "binary", filename: "image.html", content: "\x00\x01\x02\x00PNG", expected: langdetect.KindBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, langdetect.Detect(tt.filename, []byte(tt.content)))
		})
	}
}

func TestIsVendored(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.IsVendored("node_modules/pkg/index.html"))
	assert.False(t, langdetect.IsVendored("site/index.html"))
}
