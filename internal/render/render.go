// Package render converts extracted block content to HTML fragments.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bfloydd/coalesce/internal/blocks"
)

// Renderer converts Markdown to HTML. headerStyle is the heading level used
// for block titles.
type Renderer struct {
	md          goldmark.Markdown
	headerStyle int
}

// New creates a renderer. headerStyle outside 1..6 is clamped.
func New(headerStyle int) *Renderer {
	if headerStyle < 1 {
		headerStyle = 1
	}
	if headerStyle > 6 {
		headerStyle = 6
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
		headerStyle: headerStyle,
	}
}

// HTML converts a Markdown string to an HTML fragment.
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}

// BlockHTML renders one extracted block: a title heading at the configured
// header style when the block has one, followed by the rendered content.
// Hidden blocks render to an empty string.
func (r *Renderer) BlockHTML(b blocks.BlockRecord) (string, error) {
	if !b.IsVisible {
		return "", nil
	}
	var sb strings.Builder
	if b.Heading != "" {
		fmt.Fprintf(&sb, "<h%d>%s</h%d>\n", r.headerStyle, html.EscapeString(b.Heading), r.headerStyle)
	}
	body, err := r.HTML(b.Content)
	if err != nil {
		return "", err
	}
	sb.WriteString(body)
	return sb.String(), nil
}
