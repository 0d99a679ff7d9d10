package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxTextLen caps the element text shown in log lines and reports
const maxTextLen = 40

// describe returns a short human readable description of the element,
// or an empty string if its markup cannot be read
func describe(ctx context.Context, el element) string {
	html, err := el.outerHTML(ctx)
	if err != nil {
		return ""
	}

	return describeElement(html)
}

// describeElement parses the outer HTML of a single element and returns
// its tag name followed by its (trimmed) text, e.g. `button "Readme"`
func describeElement(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	sel := doc.Find("body").Children().First()
	if sel.Length() == 0 {
		return ""
	}

	tag := goquery.NodeName(sel)
	text := strings.Join(strings.Fields(sel.Text()), " ")
	if text == "" {
		text, _ = sel.Attr("aria-label")
	}
	if text == "" {
		return tag
	}

	runes := []rune(text)
	if len(runes) > maxTextLen {
		text = string(runes[:maxTextLen]) + "…"
	}

	return fmt.Sprintf("%s %q", tag, text)
}
