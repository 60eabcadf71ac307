package adapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists the elements treated as paragraph boundaries when
// flattening an HTML container to body text.
const blockSelector = "p, li, blockquote, h2, h3, pre"

// collapse normalizes inner whitespace to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstText returns the first non-empty collapsed text among the
// selector chain, in order.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := collapse(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// blockText flattens a container to text, one blank line between block
// elements so paragraph structure survives extraction. Script, style,
// and iframe subtrees are dropped first.
func blockText(container *goquery.Selection) string {
	container.Find("script, style, iframe").Remove()

	var blocks []string
	container.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		if block.Find(blockSelector).Length() > 0 {
			return // only leaf blocks, or nested lists double-count
		}
		if text := collapse(block.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n\n")
	}
	return collapse(container.Text())
}

// metaContent reads a <meta> content attribute by name or property.
func metaContent(doc *goquery.Document, attr, value string) string {
	sel := doc.Find("meta[" + attr + "=\"" + value + "\"]").First()
	content, _ := sel.Attr("content")
	return collapse(content)
}

// timeDatetime prefers the datetime attribute of a <time> element and
// falls back to its text.
func timeDatetime(sel *goquery.Selection) string {
	if dt, ok := sel.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return collapse(sel.Text())
}
