// Package toc derives a table of contents from a module's rich-text content
// by walking its HTML headings. Text that precedes the first heading gets a
// synthesized introduction entry so un-headed sections still appear.
package toc

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Entry is a single table-of-contents line.
type Entry struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// Generate parses content as HTML and returns entries for h1-h4 headings in
// document order. Parsing is tolerant: malformed markup yields whatever
// headings the parser recovers.
func Generate(content string) ([]Entry, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	var entries []Entry
	seen := make(map[string]int)
	sawHeading := false
	leadingText := false

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				sawHeading = true
				title := strings.TrimSpace(textContent(n))
				if title != "" {
					entries = append(entries, Entry{
						Level:  level,
						Title:  title,
						Anchor: uniqueAnchor(seen, title),
					})
				}
				return
			}
		}
		if n.Type == html.TextNode && !sawHeading && strings.TrimSpace(n.Data) != "" {
			leadingText = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if leadingText && len(entries) > 0 {
		intro := Entry{Level: entries[0].Level, Title: "Introduction", Anchor: uniqueAnchor(seen, "Introduction")}
		entries = append([]Entry{intro}, entries...)
	}
	return entries, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	}
	return 0
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func uniqueAnchor(seen map[string]int, title string) string {
	slug := slugify(title)
	seen[slug]++
	if seen[slug] > 1 {
		return fmt.Sprintf("%s-%d", slug, seen[slug])
	}
	return slug
}

func slugify(title string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
