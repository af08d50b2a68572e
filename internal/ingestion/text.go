package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markupElements are the tags a description must be built from to be treated
// as HTML. Anything else, such as the "<T>" in "List<T>", is kept as text.
var markupElements = map[string]bool{
	"a": true, "b": true, "blockquote": true, "br": true, "code": true,
	"div": true, "em": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "hr": true, "i": true, "li": true, "noscript": true,
	"ol": true, "p": true, "pre": true, "script": true, "small": true,
	"span": true, "strong": true, "style": true, "sub": true, "sup": true,
	"table": true, "tbody": true, "td": true, "th": true, "thead": true,
	"tr": true, "u": true, "ul": true,
}

// CleanDescription strips HTML markup from a posting description.
// Plain text, including text with angle brackets that are not HTML tags, is
// returned unchanged.
func CleanDescription(desc string) string {
	if !looksLikeHTML(desc) {
		return desc
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil || !onlyMarkupElements(doc) {
		return desc
	}
	doc.Find("script, style, noscript").Remove()

	// Block elements would otherwise run together once flattened to text.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return cleanWhitespace(doc.Text())
}

// onlyMarkupElements reports whether the parsed description contains at least
// one element and every element is a known markup tag.
func onlyMarkupElements(doc *goquery.Document) bool {
	found := false
	known := true
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch name := goquery.NodeName(s); name {
		case "html", "head", "body":
			return true
		default:
			found = true
			known = markupElements[name]
			return known
		}
	})
	return found && known
}

func looksLikeHTML(s string) bool {
	i := strings.Index(s, "<")
	return i >= 0 && strings.Contains(s[i:], ">")
}

// cleanWhitespace trims each line and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
