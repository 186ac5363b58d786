package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Fallback colors substituted for unsupported color syntax.
const (
	FallbackForeground = "#000000"
	FallbackBackground = "#ffffff"
)

var unsupportedColor = regexp.MustCompile(`(?i)\b(?:oklch|oklab|lab|lch|color-mix|color)\(`)

var cssDeclaration = regexp.MustCompile(`(--[\w-]+|[a-zA-Z-]+)\s*:\s*([^;{}]+)`)

// svgPaintAttrs are presentation attributes that take a color.
var svgPaintAttrs = map[string]bool{
	"fill":           true,
	"stroke":         true,
	"stop-color":     true,
	"flood-color":    true,
	"lighting-color": true,
	"color":          true,
}

// HasUnsupportedColor reports whether value uses a wide-gamut color function.
func HasUnsupportedColor(value string) bool {
	return unsupportedColor.MatchString(value)
}

// FallbackFor returns the substitute color for a CSS property: white for
// background properties, black for everything else.
func FallbackFor(property string) string {
	p := strings.ToLower(property)
	if strings.Contains(p, "background") || strings.HasSuffix(p, "-bg") || strings.HasPrefix(p, "--bg") {
		return FallbackBackground
	}
	return FallbackForeground
}

// NormalizeValue replaces every wide-gamut color function in value,
// including nested arguments, with the fallback for property.
func NormalizeValue(property, value string) string {
	if !HasUnsupportedColor(value) {
		return value
	}

	fallback := FallbackFor(property)
	var b strings.Builder
	rest := value
	for {
		loc := unsupportedColor.FindStringIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:loc[0]])
		end := closingParen(rest, loc[1]-1)
		b.WriteString(fallback)
		rest = rest[end:]
	}
	return b.String()
}

// closingParen returns the index just past the parenthesis matching the one
// at open, or len(s) when it is unbalanced.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// NormalizeDeclarations rewrites every "property: value" pair in css, which
// may be an inline style attribute or a full style sheet.
func NormalizeDeclarations(css string) string {
	if !HasUnsupportedColor(css) {
		return css
	}
	return cssDeclaration.ReplaceAllStringFunc(css, func(decl string) string {
		m := cssDeclaration.FindStringSubmatch(decl)
		v := NormalizeValue(m[1], m[2])
		if v == m[2] {
			return decl
		}
		return m[1] + ": " + v
	})
}

// NormalizeHTML walks every node of a page and replaces unsupported color
// syntax in inline styles, SVG paint attributes and style sheets, including
// custom properties declared on :root.
func NormalizeHTML(page string) (string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse page html: %w", err)
	}

	normalizeNode(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("render page html: %w", err)
	}
	return buf.String(), nil
}

func normalizeNode(n *html.Node) {
	if n.Type == html.ElementNode {
		for i, a := range n.Attr {
			name := strings.ToLower(a.Key)
			switch {
			case name == "style":
				n.Attr[i].Val = NormalizeDeclarations(a.Val)
			case svgPaintAttrs[name]:
				n.Attr[i].Val = NormalizeValue(name, a.Val)
			}
		}
		if n.Data == "style" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					c.Data = NormalizeDeclarations(c.Data)
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		normalizeNode(c)
	}
}
