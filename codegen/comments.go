package codegen

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
)

// commentConverter turns entity comments into doc comment text.
type commentConverter struct {
	converter *md.Converter
}

func newCommentConverter() *commentConverter {
	return &commentConverter{converter: md.NewConverter("", true, nil)}
}

// containsHTML reports whether text holds at least one element tag.
func containsHTML(text string) bool {
	if !strings.Contains(text, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

// lines returns the comment as trimmed lines, converting HTML to Markdown.
func (c *commentConverter) lines(comment string) []string {
	text := strings.TrimSpace(comment)
	if text == "" {
		return nil
	}
	if containsHTML(text) {
		if converted, err := c.converter.ConvertString(text); err == nil {
			text = converted
		}
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, strings.TrimRight(line, " \t\r"))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
