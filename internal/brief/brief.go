// Package brief renders a category's Markdown summary to HTML when no
// hand-written brief.html is provided.
package brief

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// File names looked up in a category directory, in order of preference.
const (
	HTMLFile     = "brief.html"
	MarkdownFile = "brief.md"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Render converts Markdown source to an HTML fragment.
func Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render brief: %w", err)
	}
	return buf.Bytes(), nil
}
