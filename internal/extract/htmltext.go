package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// TextFromHTML flattens an HTML file into the plain-text shape the boundary
// scanner expects: block elements become line breaks so that period-plus-
// line-break endings survive, and script/nav chrome is dropped. Content is
// taken from <main> or <article> when present, otherwise <body>.
func TextFromHTML(input []byte) string {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return ""
	}
	root := findElement(node, "main")
	if root == nil {
		root = findElement(node, "article")
	}
	if root == nil {
		root = findElement(node, "body")
	}
	if root == nil {
		return ""
	}
	var b strings.Builder
	flattenHTML(&b, root)
	return tidyLines(b.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func flattenHTML(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "header", "footer", "aside", "iframe":
			return
		case "br", "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		data := strings.ReplaceAll(n.Data, "\t", " ")
		b.WriteString(strings.ReplaceAll(data, "\r", " "))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flattenHTML(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
			b.WriteString("\n")
		}
	}
}

// tidyLines trims each line and squeezes runs of blank lines to one.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, trimmed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
