// Package render converts markdown content to HTML and derives the plain-text
// and title views the search index needs.
package render

import (
	"bytes"
	"log"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// Heading is one entry of a document's heading outline.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	ID    string `json:"id"`
}

// Renderer wraps a configured goldmark instance.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a GFM-enabled markdown renderer with stable heading IDs.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &Renderer{md: md}
}

// HTML renders markdown source to an HTML fragment.
func (r *Renderer) HTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ForFile renders source according to its file type. MDX has no native
// renderer yet and degrades to the markdown path; the fallback is logged so
// the degradation stays observable instead of silent.
func (r *Renderer) ForFile(name, fileType string, source []byte) (string, error) {
	if fileType == "mdx" {
		log.Printf("render: no native mdx renderer, markdown fallback for %s", name)
	}
	return r.HTML(source)
}

// Title returns the text of the first H1 heading, or fallback when the
// document has none.
func (r *Renderer) Title(source []byte, fallback string) string {
	doc := r.md.Parser().Parse(text.NewReader(source))

	title := ""
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level == 1 {
			title = strings.TrimSpace(string(heading.Text(source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if title == "" {
		return fallback
	}
	return title
}

// Outline extracts the heading hierarchy (H1–H3) of a document.
func (r *Renderer) Outline(source []byte) ([]Heading, error) {
	doc := r.md.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(3),
		toc.Compact(true),
	)
	if err != nil {
		return nil, err
	}

	var out []Heading
	flattenItems(tree.Items, 1, &out)
	return out, nil
}

func flattenItems(items toc.Items, level int, out *[]Heading) {
	for _, item := range items {
		if len(item.Title) > 0 {
			*out = append(*out, Heading{
				Level: level,
				Title: string(item.Title),
				ID:    string(item.ID),
			})
		}
		flattenItems(item.Items, level+1, out)
	}
}
