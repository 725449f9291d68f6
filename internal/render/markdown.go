// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	blankRuns      = regexp.MustCompile(`\n{3,}`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	latexCommand   = regexp.MustCompile(`\\[a-zA-Z]+`)
)

// Markdown renders fragment as Markdown, keeping the structure a problem
// statement usually carries: headings, paragraphs, emphasis, code, lists,
// tables, images, superscripts and math. Runs of three or more newlines
// collapse to a blank line and the result is trimmed.
func Markdown(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(walk(c))
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(b.String(), "\n\n"))
}

func walk(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
	default:
		return ""
	}

	switch n.Data {
	case "script", "style", "template", "noscript":
		return ""
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		return strings.Repeat("#", level) + " " + strings.TrimSpace(children(n)) + "\n\n"
	case "p":
		return children(n) + "\n\n"
	case "div":
		return children(n) + "\n"
	case "br":
		return "\n"
	case "hr":
		return "\n---\n\n"
	case "strong", "b":
		return "**" + children(n) + "**"
	case "em", "i":
		return "*" + children(n) + "*"
	case "u":
		return "<u>" + children(n) + "</u>"
	case "s", "del", "strike":
		return "~~" + children(n) + "~~"
	case "sup":
		return "<sup>" + children(n) + "</sup>"
	case "sub":
		return "<sub>" + children(n) + "</sub>"
	case "code":
		if n.Parent != nil && n.Parent.Type == html.ElementNode && n.Parent.Data == "pre" {
			return children(n)
		}
		return "`" + children(n) + "`"
	case "pre":
		return "\n```\n" + strings.Trim(children(n), "\n") + "\n```\n"
	case "ul":
		return "\n" + children(n)
	case "ol":
		return "\n" + orderedList(n)
	case "li":
		return "- " + strings.TrimSpace(children(n)) + "\n"
	case "img":
		return "![" + attr(n, "alt") + "](" + attr(n, "src") + ")"
	case "a":
		href := attr(n, "href")
		text := children(n)
		if href == "" {
			return text
		}
		return "[" + text + "](" + href + ")"
	case "span":
		return span(n)
	case "table":
		return table(n)
	}
	return children(n)
}

func children(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(walk(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func orderedList(n *html.Node) string {
	var b strings.Builder
	counter := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		b.WriteString(strconv.Itoa(counter) + ". " + strings.TrimSpace(children(c)) + "\n")
		counter++
	}
	return b.String()
}

// span handles math containers and text-decoration styles.
func span(n *html.Node) string {
	class := attr(n, "class")
	switch {
	case strings.Contains(class, "math-inline") || strings.Contains(class, "MathJax"):
		return "$" + normalizeMath(textContent(n)) + "$"
	case strings.Contains(class, "math-display"):
		return "\n$$\n" + normalizeMath(textContent(n)) + "\n$$\n"
	}

	style := strings.ToLower(attr(n, "style"))
	if strings.Contains(style, "text-decoration") {
		switch {
		case strings.Contains(style, "underline"):
			return "<u>" + children(n) + "</u>"
		case strings.Contains(style, "line-through"):
			return "~~" + children(n) + "~~"
		}
	}
	return children(n)
}

func table(n *html.Node) string {
	var rows []*html.Node
	collectRows(n, &rows)
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	header := cells(rows[0])
	b.WriteString("\n| " + strings.Join(header, " | ") + " |\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		cs := cells(row)
		for i, c := range cs {
			if c == "" {
				cs[i] = "&nbsp;"
			}
		}
		b.WriteString("| " + strings.Join(cs, " | ") + " |\n")
	}
	return b.String() + "\n"
}

func collectRows(n *html.Node, rows *[]*html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data == "tr" {
			*rows = append(*rows, c)
			continue
		}
		collectRows(c, rows)
	}
}

func cells(row *html.Node) []string {
	var out []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			out = append(out, strings.TrimSpace(children(c)))
		}
	}
	return out
}

// latexSymbols maps LaTeX commands to the Unicode symbols they typeset.
var latexSymbols = map[string]string{
	`\leq`: "≤", `\le`: "≤", `\geq`: "≥", `\ge`: "≥",
	`\neq`: "≠", `\ne`: "≠", `\approx`: "≈", `\equiv`: "≡",
	`\times`: "×", `\cdot`: "·", `\div`: "÷", `\pm`: "±", `\mp`: "∓",
	`\to`: "→", `\rightarrow`: "→", `\leftarrow`: "←", `\leftrightarrow`: "↔",
	`\Rightarrow`: "⇒", `\Leftarrow`: "⇐", `\Leftrightarrow`: "⇔",
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ",
	`\epsilon`: "ε", `\zeta`: "ζ", `\eta`: "η", `\theta`: "θ",
	`\iota`: "ι", `\kappa`: "κ", `\lambda`: "λ", `\mu`: "μ",
	`\nu`: "ν", `\xi`: "ξ", `\pi`: "π", `\rho`: "ρ",
	`\sigma`: "σ", `\tau`: "τ", `\upsilon`: "υ", `\phi`: "φ",
	`\chi`: "χ", `\psi`: "ψ", `\omega`: "ω",
	`\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ", `\Lambda`: "Λ",
	`\Xi`: "Ξ", `\Pi`: "Π", `\Sigma`: "Σ", `\Phi`: "Φ",
	`\Psi`: "Ψ", `\Omega`: "Ω",
	`\forall`: "∀", `\exists`: "∃", `\wedge`: "∧", `\vee`: "∨",
	`\neg`: "¬", `\land`: "∧", `\lor`: "∨",
	`\in`: "∈", `\notin`: "∉", `\subset`: "⊂", `\subseteq`: "⊆",
	`\supset`: "⊃", `\supseteq`: "⊇", `\cup`: "∪", `\cap`: "∩",
	`\emptyset`: "∅",
	`\infty`: "∞", `\partial`: "∂", `\nabla`: "∇", `\sum`: "∑",
	`\prod`: "∏", `\int`: "∫",
}

// normalizeMath maps known LaTeX commands to symbols and drops the rest,
// matching whole command names only, so \left is removed rather than read
// as \le plus "ft".
func normalizeMath(s string) string {
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = latexCommand.ReplaceAllStringFunc(s, func(cmd string) string {
		return latexSymbols[cmd]
	})
	s = strings.ReplaceAll(s, `\`, "")
	return strings.TrimSpace(s)
}
