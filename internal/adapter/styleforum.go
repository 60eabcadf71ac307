package adapter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

// maxForumReplies bounds how many replies are folded into a thread body.
const maxForumReplies = 50

// StyleForum parses XenForo-style thread pages: the opening post plus a
// bounded number of replies become one body.
type StyleForum struct {
	transport *Transport
}

// NewStyleForum builds the styleforum.net adapter.
func NewStyleForum(transport *Transport) *StyleForum {
	return &StyleForum{transport: transport}
}

// Fetch delegates to the shared transport.
func (s *StyleForum) Fetch(ctx context.Context, url string) (corpus.FetchResult, error) {
	return s.transport.Fetch(ctx, url)
}

// Parse extracts a thread: title, opening post, replies, and tags.
func (s *StyleForum) Parse(_ context.Context, raw []byte, url string) (corpus.ParsedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return corpus.ParsedContent{}, fmt.Errorf("parse html for %s: %w", url, err)
	}

	title := firstText(doc, "h1.p-title-value", "h1")

	posts := doc.Find("article.message")
	if posts.Length() == 0 {
		return corpus.ParsedContent{}, &corpus.ValidationError{URL: url, Reason: "no posts in thread"}
	}

	first := posts.First()
	opening := postBody(first)
	if opening == "" {
		return corpus.ParsedContent{}, &corpus.ValidationError{URL: url, Reason: "opening post has no body"}
	}

	author := collapse(first.Find("a.username").First().Text())

	var published string
	if t := first.Find("time").First(); t.Length() > 0 {
		published = timeDatetime(t)
	}

	parts := []string{opening}
	posts.Slice(1, posts.Length()).EachWithBreak(func(i int, post *goquery.Selection) bool {
		if i >= maxForumReplies {
			return false
		}
		if reply := postBody(post); reply != "" {
			parts = append(parts, reply)
		}
		return true
	})

	var tags []string
	doc.Find("a.tagItem").Each(func(_ int, tag *goquery.Selection) {
		if text := collapse(tag.Text()); text != "" {
			tags = append(tags, text)
		}
	})

	return corpus.ParsedContent{
		Title:         title,
		Body:          strings.Join(parts, "\n\n"),
		Author:        author,
		PublishedDate: published,
		Tags:          tags,
		SourceType:    corpus.SourceTypeForum,
	}, nil
}

func postBody(post *goquery.Selection) string {
	for _, sel := range []string{"div.bbWrapper", "div.message-body"} {
		if container := post.Find(sel).First(); container.Length() > 0 {
			if text := blockText(container); text != "" {
				return text
			}
		}
	}
	return ""
}
