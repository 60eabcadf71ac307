package adapter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// minGenericBodyChars rejects containers that matched a selector but
// carry only navigation chrome.
const minGenericBodyChars = 300

// Generic handles any blog-shaped page with no dedicated adapter. It
// walks fallback selector chains covering common WordPress-style themes.
type Generic struct {
	transport *Transport
}

// NewGeneric builds the fallback adapter.
func NewGeneric(transport *Transport) *Generic {
	return &Generic{transport: transport}
}

// Fetch delegates to the shared transport.
func (g *Generic) Fetch(ctx context.Context, url string) (corpus.FetchResult, error) {
	return g.transport.Fetch(ctx, url)
}

// Parse extracts article-shaped content from raw HTML.
func (g *Generic) Parse(_ context.Context, raw []byte, url string) (corpus.ParsedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return corpus.ParsedContent{}, fmt.Errorf("parse html for %s: %w", url, err)
	}

	title := firstText(doc,
		"h1.entry-title",
		"h1.post-title",
		"h1.article-title",
		"h1.single-title",
		"h1",
	)

	var body string
	for _, sel := range []string{
		"section.entry-content",
		"div.entry-content",
		"div.post-content",
		"div.article-content",
		"article",
		"div#content",
	} {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		if text := blockText(container); len(text) > minGenericBodyChars {
			body = text
			break
		}
	}
	if body == "" {
		return corpus.ParsedContent{}, &corpus.ValidationError{URL: url, Reason: "no substantial content container"}
	}

	author := firstText(doc, "span.author", "a[rel=\"author\"]", "span.by-author")
	if author == "" {
		author = metaContent(doc, "name", "author")
	}

	var published string
	if t := doc.Find("time").First(); t.Length() > 0 {
		published = timeDatetime(t)
	}
	if published == "" {
		published = firstText(doc, "span.published", "span.date")
	}
	if published == "" {
		published = metaContent(doc, "property", "article:published_time")
	}

	return corpus.ParsedContent{
		Title:         title,
		Body:          body,
		Author:        author,
		PublishedDate: published,
		SourceType:    corpus.SourceTypeArticle,
	}, nil
}
