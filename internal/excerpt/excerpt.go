// Package excerpt derives the short plain-text preview ("peek") shown for a
// document from its converted markup.
package excerpt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ellipsis is appended to every excerpt, truncated or not.
const Ellipsis = "..."

// Extract walks the paragraph and list-item elements of markup in document
// order. Each element contributes at most the remaining budget of its text
// followed by a space, and then charges its full text length against the
// budget. Extraction stops once the budget drops below zero.
func Extract(markup string, maxLength int) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse converted markup: %w", err)
	}

	var b strings.Builder
	remaining := maxLength

	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && (n.DataAtom == atom.P || n.DataAtom == atom.Li) {
			text := strings.ReplaceAll(textOf(n), "\n", " ")
			b.WriteString(prefix(text, remaining))
			b.WriteByte(' ')
			remaining -= utf8.RuneCountInString(text)
			if remaining < 0 {
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(doc)

	b.WriteString(Ellipsis)
	return b.String(), nil
}

// ExtractFile reads a converted file and extracts its excerpt.
func ExtractFile(path string, maxLength int) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	return Extract(string(data), maxLength)
}

// textOf concatenates every text node below n.
func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
