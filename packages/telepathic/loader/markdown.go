package loader

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns a Markdown template into HTML
type Renderer interface {
	Render(markdown string) (string, error)
}

// MarkdownRenderer renders GitHub flavored Markdown. Raw HTML in the source
// is passed through so template markup survives.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a renderer; extra extensions are added after GFM
func NewMarkdownRenderer(extensions ...goldmark.Extender) *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(append([]goldmark.Extender{extension.GFM}, extensions...)...),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render implements Renderer
func (r *MarkdownRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(markdown string) (string, error)

// Render implements Renderer
func (f RendererFunc) Render(markdown string) (string, error) {
	return f(markdown)
}
