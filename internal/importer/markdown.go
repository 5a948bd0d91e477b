// Package importer converts outside documents into page fragments the
// engine can load. Markdown is the only supported input for now.
package importer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown renders a markdown document to an HTML body fragment. Code
// fences come out pre-highlighted, since an exported page ships without a
// client-side highlighter.
func Markdown(src []byte) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// StarterCSS is the stylesheet given to freshly imported documents.
const StarterCSS = `body {
  max-width: 46rem;
  margin: 2rem auto;
  padding: 0 1rem;
  font-family: system-ui, sans-serif;
  line-height: 1.6;
}

pre {
  overflow-x: auto;
  padding: 0.75rem;
  border-radius: 4px;
}

img {
  max-width: 100%;
}
`
