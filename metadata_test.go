package readability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONLD(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"NewsArticle","headline":"Deep Dive Into Tides","author":{"name":"Jane Doe"},"datePublished":"2023-05-01","publisher":{"name":"Ocean Blog"},"description":"All about tides.","image":"https://fakehost/cover.jpg"}</script>
</head><body></body></html>`

	r := mustNewParser(t, page, testURI)
	m := r.getJSONLD()

	assert.Equal(t, "Deep Dive Into Tides", m.title)
	assert.Equal(t, "Jane Doe", m.byline)
	assert.Equal(t, "Ocean Blog", m.siteName)
	assert.Equal(t, "All about tides.", m.excerpt)
	assert.Equal(t, "2023-05-01", m.publishedDateRaw)
	assert.Equal(t, "https://fakehost/cover.jpg", m.previewImage)
}

func TestGetJSONLDIgnoresForeignContext(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@context":"https://not-schema.example/","@type":"NewsArticle","headline":"Nope"}</script>
</head><body></body></html>`

	r := mustNewParser(t, page, testURI)
	m := r.getJSONLD()
	assert.Empty(t, m.title)
}

func TestGetJSONLDAuthorList(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Article","headline":"Team Effort","author":[{"name":"Jane Doe"},{"name":"John Roe"}]}</script>
</head><body></body></html>`

	r := mustNewParser(t, page, testURI)
	m := r.getJSONLD()
	assert.Equal(t, "Jane Doe, John Roe", m.byline)
}

func TestGetArticleMetadata(t *testing.T) {
	t.Run("should pick the shortest title variant", func(t *testing.T) {
		page := `<html><head>
<meta name="twitter:title" content="Hello World"/>
<meta property="og:title" content="Hello World | Example Site"/>
</head><body></body></html>`
		r := mustNewParser(t, page, testURI)
		m := r.getArticleMetadata(nil)
		assert.Equal(t, "Hello World", m.title)
	})

	t.Run("should skip numeric image values", func(t *testing.T) {
		page := `<html><head>
<meta property="og:image" content="800"/>
</head><body></body></html>`
		r := mustNewParser(t, page, testURI)
		m := r.getArticleMetadata(nil)
		assert.Empty(t, m.previewImage)
	})

	t.Run("should resolve the preview image against the origin", func(t *testing.T) {
		page := `<html><head>
<meta property="og:image" content="/cover.jpg"/>
</head><body></body></html>`
		r := mustNewParser(t, page, testURI)
		m := r.getArticleMetadata(nil)
		assert.Equal(t, "http://fakehost/cover.jpg", m.previewImage)
	})

	t.Run("should unescape html entities", func(t *testing.T) {
		page := `<html><head>
<meta property="og:title" content="Salt &amp; Water &#x2014; A Story"/>
</head><body></body></html>`
		r := mustNewParser(t, page, testURI)
		m := r.getArticleMetadata(nil)
		assert.Equal(t, "Salt & Water — A Story", m.title)
	})

	t.Run("should parse the published date", func(t *testing.T) {
		page := `<html><head>
<meta property="article:published_time" content="2023-05-01T10:00:00Z"/>
</head><body></body></html>`
		r := mustNewParser(t, page, testURI)
		m := r.getArticleMetadata(nil)
		require.NotNil(t, m.publishedDate)
		assert.Equal(t, time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC).Unix(), m.publishedDate.Unix())
	})
}

func TestGetSiteIcon(t *testing.T) {
	t.Run("should resolve relative icons", func(t *testing.T) {
		r := mustNewParser(t, `<html><head><link rel="icon" href="/favicon.ico"/></head><body></body></html>`, testURI)
		assert.Equal(t, "http://fakehost/favicon.ico", r.getSiteIcon())
	})

	t.Run("should pass data uris through", func(t *testing.T) {
		r := mustNewParser(t, `<html><head><link rel="icon" href="data:image/png;base64,AAAA"/></head><body></body></html>`, testURI)
		assert.Equal(t, "data:image/png;base64,AAAA", r.getSiteIcon())
	})
}

func TestGetArticleTitle(t *testing.T) {
	t.Run("should drop the site name after a separator", func(t *testing.T) {
		r := mustNewParser(t, `<html><head><title>A Long And Winding Article Title | Some Site</title></head><body></body></html>`, testURI)
		assert.Equal(t, "A Long And Winding Article Title", r.getArticleTitle())
	})

	t.Run("should keep short titles intact", func(t *testing.T) {
		r := mustNewParser(t, `<html><head><title>Short Title | Some Site</title></head><body></body></html>`, testURI)
		assert.Equal(t, "Short Title | Some Site", r.getArticleTitle())
	})

	t.Run("should fall back to a single h1", func(t *testing.T) {
		r := mustNewParser(t, `<html><head><title>x</title></head><body><h1>The Actual Headline Of This Very Page</h1></body></html>`, testURI)
		assert.Equal(t, "The Actual Headline Of This Very Page", r.getArticleTitle())
	})
}

func TestUnescapeHtmlEntities(t *testing.T) {
	assert.Equal(t, `"fish" & <chips>`, unescapeHtmlEntities("&quot;fish&quot; &amp; &lt;chips&gt;"))
	assert.Equal(t, "café", unescapeHtmlEntities("caf&#233;"))
	assert.Equal(t, "café", unescapeHtmlEntities("caf&#xE9;"))
	assert.Equal(t, "", unescapeHtmlEntities(""))
}
