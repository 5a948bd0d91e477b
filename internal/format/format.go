// Package format holds the pretty-printers for the three source languages
// shown in the code view. Each formatter is a pure text transform: it only
// rearranges whitespace and structure, never meaning, and formatting its
// own output again yields identical text. Malformed input returns an error
// and callers keep their previous text.
package format

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const indentUnit = "  "

// Markup pretty-prints an HTML body fragment: block structure indented two
// spaces per level, elements with a single text child kept on one line.
func Markup(src string) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return "", fmt.Errorf("parsing markup: %w", err)
	}

	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n, 0)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// rawTextTags are elements whose content must survive byte-for-byte.
var rawTextTags = map[string]bool{
	"pre":      true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

func writeNode(b *strings.Builder, n *html.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			b.WriteString(indent + text + "\n")
		}
	case html.CommentNode:
		b.WriteString(indent + "<!--" + n.Data + "-->\n")
	case html.ElementNode:
		if rawTextTags[n.Data] {
			b.WriteString(indent + renderVerbatim(n) + "\n")
			return
		}
		open := openTag(n)
		switch {
		case n.FirstChild == nil:
			b.WriteString(indent + renderVerbatim(n) + "\n")
		case hasOnlyInlineText(n):
			b.WriteString(indent + open + strings.TrimSpace(n.FirstChild.Data) + closeTag(n) + "\n")
		default:
			b.WriteString(indent + open + "\n")
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeNode(b, c, depth+1)
			}
			b.WriteString(indent + closeTag(n) + "\n")
		}
	}
}

// hasOnlyInlineText reports whether the element's sole child is a text node.
func hasOnlyInlineText(n *html.Node) bool {
	return n.FirstChild != nil &&
		n.FirstChild == n.LastChild &&
		n.FirstChild.Type == html.TextNode
}

func openTag(n *html.Node) string {
	var b strings.Builder
	b.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		b.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	b.WriteString(">")
	return b.String()
}

func closeTag(n *html.Node) string {
	return "</" + n.Data + ">"
}

// renderVerbatim serializes a node exactly as the engine would.
func renderVerbatim(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}

// Stylesheet pretty-prints CSS: one selector group per rule, declarations
// indented, nested at-rules indented a further level.
func Stylesheet(src string) (string, error) {
	sheet, err := parser.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing stylesheet: %w", err)
	}

	var b strings.Builder
	for i, rule := range sheet.Rules {
		if i > 0 {
			b.WriteString("\n")
		}
		writeRule(&b, rule, 0)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeRule(b *strings.Builder, rule *css.Rule, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	if rule.Kind == css.AtRule && !rule.EmbedsRules() {
		b.WriteString(indent + rule.Name + " " + strings.TrimSpace(rule.Prelude) + ";\n")
		return
	}

	b.WriteString(indent + ruleHeader(rule) + " {\n")
	for _, decl := range rule.Declarations {
		b.WriteString(indent + indentUnit + decl.StringWithImportant(decl.Important) + "\n")
	}
	for _, nested := range rule.Rules {
		writeRule(b, nested, depth+1)
	}
	b.WriteString(indent + "}\n")
}

func ruleHeader(rule *css.Rule) string {
	if rule.Kind == css.AtRule {
		return rule.Name + " " + strings.TrimSpace(rule.Prelude)
	}
	return strings.Join(rule.Selectors, ", ")
}

// Script re-indents JavaScript by brace depth. It deliberately stays away
// from reprinting expressions: lines are trimmed and indented, nothing
// else. Unbalanced braces are treated as malformed input.
func Script(src string) (string, error) {
	depth := 0
	var out []string
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, "")
			continue
		}

		opens, closes := braceDelta(trimmed)
		lineDepth := depth
		if strings.HasPrefix(trimmed, "}") || strings.HasPrefix(trimmed, ")") || strings.HasPrefix(trimmed, "]") {
			lineDepth--
		}
		if lineDepth < 0 {
			return "", fmt.Errorf("unbalanced braces in script")
		}
		out = append(out, strings.Repeat(indentUnit, lineDepth)+trimmed)

		depth += opens - closes
		if depth < 0 {
			return "", fmt.Errorf("unbalanced braces in script")
		}
	}
	if depth != 0 {
		return "", fmt.Errorf("unbalanced braces in script")
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n"), nil
}

// braceDelta counts bracket openings and closings outside string literals
// and line comments.
func braceDelta(line string) (opens, closes int) {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return opens, closes
			}
		case '{', '(', '[':
			opens++
		case '}', ')', ']':
			closes++
		}
	}
	return opens, closes
}
