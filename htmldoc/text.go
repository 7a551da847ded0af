// Package htmldoc reads text out of static HTML.
package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText returns the text a reader would see in the document body:
// text tokens inside <body>, outside script/style/noscript, each trimmed
// and joined by single spaces. Documents without a <body> tag yield all
// text outside the skipped elements.
func VisibleText(doc string) string {
	hasBody := strings.Contains(strings.ToLower(doc), "<body")
	tokenizer := html.NewTokenizer(strings.NewReader(doc))
	var buf strings.Builder
	inBody := !hasBody
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(buf.String())
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "body":
				inBody = true
			case "script", "style", "noscript":
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "body":
				inBody = false
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				text := strings.Join(strings.Fields(string(tokenizer.Text())), " ")
				if text != "" {
					buf.WriteString(text)
					buf.WriteByte(' ')
				}
			}
		}
	}
}
