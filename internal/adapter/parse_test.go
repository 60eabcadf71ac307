package adapter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashiondb/stylecorpus/internal/corpus"
)

const styleforumThreadHTML = `<!DOCTYPE html>
<html><body>
<h1 class="p-title-value">How should a sport coat fit?</h1>
<div class="tag-list">
  <a class="tagItem">tailoring</a>
  <a class="tagItem">sport coats</a>
</div>
<article class="message">
  <a class="username">clothier42</a>
  <time datetime="2024-03-01T10:00:00Z">Mar 1, 2024</time>
  <div class="bbWrapper">
    <p>The shoulder seam should end where your shoulder does.</p>
    <p>If the shoulder fits, a tailor can handle almost everything else.</p>
  </div>
</article>
<article class="message">
  <a class="username">drapefan</a>
  <div class="bbWrapper"><p>Agreed, and mind the button stance too.</p></div>
</article>
<article class="message">
  <a class="username">lurker</a>
  <div class="message-body"><p>Sleeve length matters more than people think.</p></div>
</article>
</body></html>`

func TestStyleForumParse(t *testing.T) {
	adapter := NewStyleForum(nil)
	parsed, err := adapter.Parse(context.Background(), []byte(styleforumThreadHTML), "https://styleforum.net/threads/fit.1")
	require.NoError(t, err)

	assert.Equal(t, "How should a sport coat fit?", parsed.Title)
	assert.Equal(t, "clothier42", parsed.Author)
	assert.Equal(t, "2024-03-01T10:00:00Z", parsed.PublishedDate)
	assert.Equal(t, corpus.SourceTypeForum, parsed.SourceType)
	assert.Equal(t, []string{"tailoring", "sport coats"}, parsed.Tags)

	// Opening post first, replies appended in page order.
	paragraphs := strings.Split(parsed.Body, "\n\n")
	require.Len(t, paragraphs, 4)
	assert.Equal(t, "The shoulder seam should end where your shoulder does.", paragraphs[0])
	assert.Contains(t, paragraphs[2], "button stance")
	assert.Contains(t, paragraphs[3], "Sleeve length")
}

func TestStyleForumParseNoPosts(t *testing.T) {
	adapter := NewStyleForum(nil)
	_, err := adapter.Parse(context.Background(), []byte("<html><body><h1>Empty</h1></body></html>"), "https://styleforum.net/threads/x")

	var vErr *corpus.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "no posts")
}

var putthisonPostHTML = `<!DOCTYPE html>
<html><body>
<h1 class="entry-title">The Case For Gray Trousers</h1>
<span class="author">Derek Guy</span>
<time datetime="2024-05-10">May 10, 2024</time>
<div class="entry-content">
  <script>track();</script>
  <p>` + strings.Repeat("Gray trousers go with almost any sport coat you own. ", 5) + `</p>
  <p>Start with mid-gray flannel for autumn and tropical wool for summer.</p>
  <ul><li>Mid-gray flannel</li><li>Tropical wool</li></ul>
</div>
<div class="tags"><a>trousers</a><a>tailoring</a></div>
</body></html>`

func TestPutThisOnParse(t *testing.T) {
	adapter := NewPutThisOn(nil)
	parsed, err := adapter.Parse(context.Background(), []byte(putthisonPostHTML), "https://putthison.com/gray-trousers")
	require.NoError(t, err)

	assert.Equal(t, "The Case For Gray Trousers", parsed.Title)
	assert.Equal(t, "Derek Guy", parsed.Author)
	assert.Equal(t, "2024-05-10", parsed.PublishedDate)
	assert.Equal(t, corpus.SourceTypeBlog, parsed.SourceType)
	assert.Equal(t, []string{"trousers", "tailoring"}, parsed.Tags)
	assert.NotContains(t, parsed.Body, "track()", "script content must be stripped")
	assert.Contains(t, parsed.Body, "mid-gray flannel")
	assert.Contains(t, parsed.Body, "Mid-gray flannel\n\nTropical wool", "list items are separate blocks")
}

func TestPutThisOnParseDefaultsAuthor(t *testing.T) {
	html := `<html><body><h1>Untitled</h1><div class="entry-content"><p>` +
		strings.Repeat("Quality over quantity wins every time. ", 10) + `</p></div></body></html>`
	adapter := NewPutThisOn(nil)
	parsed, err := adapter.Parse(context.Background(), []byte(html), "https://putthison.com/x")
	require.NoError(t, err)
	assert.Equal(t, "Put This On", parsed.Author)
}

var genericArticleHTML = `<!DOCTYPE html>
<html><head>
<meta name="author" content="Staff Writer">
<meta property="article:published_time" content="2024-07-04T08:00:00Z">
</head><body>
<h1 class="article-title">Building A Capsule Wardrobe</h1>
<div class="article-content">
  <p>` + strings.Repeat("A capsule wardrobe starts with versatile basics in neutral colors. ", 6) + `</p>
  <p>Buy fewer, better pieces and make sure every item pairs with several others.</p>
</div>
</body></html>`

func TestGenericParse(t *testing.T) {
	adapter := NewGeneric(nil)
	parsed, err := adapter.Parse(context.Background(), []byte(genericArticleHTML), "https://example.com/capsule")
	require.NoError(t, err)

	assert.Equal(t, "Building A Capsule Wardrobe", parsed.Title)
	assert.Equal(t, "Staff Writer", parsed.Author)
	assert.Equal(t, "2024-07-04T08:00:00Z", parsed.PublishedDate)
	assert.Equal(t, corpus.SourceTypeArticle, parsed.SourceType)
	assert.Contains(t, parsed.Body, "versatile basics")
}

func TestGenericParseRejectsThinContainers(t *testing.T) {
	html := `<html><body><h1>Nav Page</h1><div class="entry-content"><p>just a nav stub</p></div></body></html>`
	adapter := NewGeneric(nil)
	_, err := adapter.Parse(context.Background(), []byte(html), "https://example.com/nav")

	var vErr *corpus.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRegistryRouting(t *testing.T) {
	r := NewRegistry(NewTransport(TransportConfig{}))

	assert.IsType(t, &StyleForum{}, r.Route("styleforum.net"))
	assert.IsType(t, &PutThisOn{}, r.Route("putthison.com"))
	assert.IsType(t, &Generic{}, r.Route("unknown-blog.com"))
	assert.Equal(t, []string{"putthison.com", "styleforum.net"}, r.Domains())
}

func TestRegistryRegisterOverride(t *testing.T) {
	r := NewRegistry(NewTransport(TransportConfig{}))
	custom := NewGeneric(nil)
	r.Register("styleforum.net", custom)
	assert.Same(t, custom, r.Route("styleforum.net"))
}
