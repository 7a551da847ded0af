package htmldoc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
)

// IsXPath reports whether expr is an XPath expression rather than a CSS
// selector.
func IsXPath(expr string) bool {
	expr = strings.TrimSpace(expr)
	return strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "(")
}

// Select returns the trimmed text of the first element matching expr.
// found is false when nothing matches; err is reserved for invalid
// expressions and unparsable documents.
func Select(doc, expr string) (text string, found bool, err error) {
	if IsXPath(expr) {
		return selectXPath(doc, expr)
	}
	return selectCSS(doc, expr)
}

func selectCSS(doc, expr string) (string, bool, error) {
	sel, err := cascadia.Compile(expr)
	if err != nil {
		return "", false, fmt.Errorf("htmldoc: invalid css selector %q: %w", expr, err)
	}
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", false, fmt.Errorf("htmldoc: parse: %w", err)
	}
	match := d.FindMatcher(sel).First()
	if match.Length() == 0 {
		return "", false, nil
	}
	return strings.TrimSpace(match.Text()), true, nil
}

func selectXPath(doc, expr string) (string, bool, error) {
	root, err := htmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		return "", false, fmt.Errorf("htmldoc: parse: %w", err)
	}
	node, err := htmlquery.Query(root, expr)
	if err != nil {
		return "", false, fmt.Errorf("htmldoc: invalid xpath %q: %w", expr, err)
	}
	if node == nil {
		return "", false, nil
	}
	return strings.TrimSpace(htmlquery.InnerText(node)), true, nil
}
