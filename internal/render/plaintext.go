package render

import (
	"regexp"
	"strings"
)

var (
	frontMatterRe = regexp.MustCompile(`(?ms)^---\s*\n.*?\n---\s*\n?`)
	fencedCodeRe  = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe  = regexp.MustCompile("`[^`\n]*`")
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	imageRe       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingMarkRe = regexp.MustCompile(`(?m)^#{1,6}[ \t]*`)
	listMarkRe    = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+\.)[ \t]+`)
	quoteMarkRe   = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	emphasisRe    = regexp.MustCompile(`[*_~]{1,3}`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// PlainText strips markdown and HTML syntax from source, leaving the prose
// for indexing: code blocks and tags are removed entirely, link and image
// syntax is reduced to its label, and whitespace collapses to single spaces.
func PlainText(source []byte) string {
	s := string(source)
	s = frontMatterRe.ReplaceAllString(s, "")
	s = fencedCodeRe.ReplaceAllString(s, " ")
	s = inlineCodeRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = imageRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = headingMarkRe.ReplaceAllString(s, "")
	s = listMarkRe.ReplaceAllString(s, "")
	s = quoteMarkRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Snippet truncates s to at most max runes, appending an ellipsis when
// content was dropped.
func Snippet(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
