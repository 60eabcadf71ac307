package adapter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// PutThisOn parses putthison.com posts, a WordPress blog with a stable
// entry-content layout.
type PutThisOn struct {
	transport *Transport
}

// NewPutThisOn builds the putthison.com adapter.
func NewPutThisOn(transport *Transport) *PutThisOn {
	return &PutThisOn{transport: transport}
}

// Fetch delegates to the shared transport.
func (p *PutThisOn) Fetch(ctx context.Context, url string) (corpus.FetchResult, error) {
	return p.transport.Fetch(ctx, url)
}

// Parse extracts a single blog post.
func (p *PutThisOn) Parse(_ context.Context, raw []byte, url string) (corpus.ParsedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return corpus.ParsedContent{}, fmt.Errorf("parse html for %s: %w", url, err)
	}

	title := firstText(doc, "h1.entry-title", "h1.post-title", "h2.post-title", "h1")

	var body string
	for _, sel := range []string{
		"section.entry-content",
		"div.entry-content",
		"div.post-content",
		"article",
		"div#content",
	} {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		if text := blockText(container); len(text) > 200 {
			body = text
			break
		}
	}
	if body == "" {
		return corpus.ParsedContent{}, &corpus.ValidationError{URL: url, Reason: "no post content"}
	}

	author := firstText(doc, "span.author", "a[rel=\"author\"]")
	if author == "" {
		author = "Put This On"
	}

	var published string
	if t := doc.Find("time").First(); t.Length() > 0 {
		published = timeDatetime(t)
	}
	if published == "" {
		published = firstText(doc, "span.date")
	}

	var tags []string
	doc.Find("div.tags a, div.tags span, ul.post-categories a, ul.post-categories span").Each(func(_ int, tag *goquery.Selection) {
		if text := collapse(tag.Text()); text != "" {
			tags = append(tags, text)
		}
	})

	return corpus.ParsedContent{
		Title:         title,
		Body:          body,
		Author:        author,
		PublishedDate: published,
		Tags:          tags,
		SourceType:    corpus.SourceTypeBlog,
	}, nil
}
