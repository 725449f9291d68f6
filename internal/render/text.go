// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns source judge HTML fields into text and formats the
// documents of an export unit: problem.md, problem.yaml and testdata/config.yml.
package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/oj-export/pkg/types"
)

// TextFunc renders an HTML fragment to text. Implementations never fail:
// malformed markup degrades to best-effort text.
type TextFunc func(fragment string) string

// ForMode returns the renderer for mode. Unknown modes fall back to Text.
func ForMode(mode types.RenderMode) TextFunc {
	if mode == types.RenderMarkdown {
		return Markdown
	}
	return Text
}

// Text extracts the visible text nodes of fragment, joins them with
// newlines and trims the result. Script and style bodies are not visible
// and are skipped; character references are decoded.
func Text(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// The tokenizer only fails on reader errors; keep the input as is.
		return strings.TrimSpace(fragment)
	}

	var parts []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			if invisible(n.Data) {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func invisible(tag string) bool {
	switch tag {
	case "script", "style", "template", "noscript":
		return true
	}
	return false
}
