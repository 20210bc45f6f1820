package readability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidByline(t *testing.T) {
	assert.True(t, isValidByline("Jane Doe"))
	assert.True(t, isValidByline("  Jane Doe  "))
	assert.False(t, isValidByline(""))
	assert.False(t, isValidByline("   "))
	assert.False(t, isValidByline(string(make([]byte, 120))))
}

func TestCheckByline(t *testing.T) {
	t.Run("should capture a byline by class name", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div class="byline">Jane Doe</div></body></html>`, testURI)
		node := r.doc.getElementsByTagName("div")[0]
		assert.True(t, r.checkByline(node, "byline"))
		assert.Equal(t, "Jane Doe", r.articleByline)
	})

	t.Run("should prefer the name sub-element", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div itemprop="author"><span itemprop="name">Jane Doe</span> May 1, 2023</div></body></html>`, testURI)
		node := r.doc.findAll(func(n *Node) bool { return n.getAttribute("itemprop") == "author" })[0]
		assert.True(t, r.checkByline(node, ""))
		assert.Equal(t, "Jane Doe", r.articleByline)
	})

	t.Run("should not overwrite a byline already found", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div class="byline">Jane Doe</div></body></html>`, testURI)
		r.articleByline = "John Roe"
		node := r.doc.getElementsByTagName("div")[0]
		assert.False(t, r.checkByline(node, "byline"))
		assert.Equal(t, "John Roe", r.articleByline)
	})
}

func TestFindDateInText(t *testing.T) {
	t.Run("should find numeric dates", func(t *testing.T) {
		d := findDateInText("posted on 2023-05-01 by the editors")
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC).Unix(), d.Unix())
	})

	t.Run("should find long dates with ordinal suffixes", func(t *testing.T) {
		d := findDateInText("August 21st, 2019")
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2019, 8, 21, 0, 0, 0, 0, time.UTC).Unix(), d.Unix())
	})

	t.Run("should find chinese dates", func(t *testing.T) {
		d := findDateInText("2023年5月1日")
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC).Unix(), d.Unix())
	})

	t.Run("should not invent a date", func(t *testing.T) {
		assert.Nil(t, findDateInText("nothing to see here"))
	})
}

func TestCheckPublishedDate(t *testing.T) {
	t.Run("should read the datetime attribute of time elements", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><time datetime="2023-05-01T10:00:00Z">a while ago</time></body></html>`, testURI)
		node := r.doc.getElementsByTagName("time")[0]
		assert.True(t, r.checkPublishedDate(node, "time"))
		require.NotNil(t, r.articlePublishedDate)
		assert.Equal(t, time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC).Unix(), r.articlePublishedDate.Unix())
	})

	t.Run("should skip meta and anchor elements", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><a href="/archive">May 1, 2023</a></body></html>`, testURI)
		node := r.doc.getElementsByTagName("a")[0]
		assert.False(t, r.checkPublishedDate(node, "published"))
		assert.Nil(t, r.articlePublishedDate)
	})

	t.Run("should find a date in span text", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><span class="post-date">May 1, 2023</span></body></html>`, testURI)
		node := r.doc.getElementsByTagName("span")[0]
		assert.True(t, r.checkPublishedDate(node, "post-date"))
		require.NotNil(t, r.articlePublishedDate)
	})
}

func TestGetLinkDensity(t *testing.T) {
	t.Run("should divide link text by total text", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div>12345<a href="/other">12345</a></div></body></html>`, testURI)
		div := r.doc.getElementsByTagName("div")[0]
		assert.InDelta(t, 0.5, r.getLinkDensity(div), 0.001)
	})

	t.Run("should discount in-page hash links", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div>12345<a href="#fn1">12345</a></div></body></html>`, testURI)
		div := r.doc.getElementsByTagName("div")[0]
		assert.InDelta(t, 0.15, r.getLinkDensity(div), 0.001)
	})

	t.Run("should skip photo credit links in captions", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div>12345<figcaption><a href="/photographer">12345</a></figcaption></div></body></html>`, testURI)
		div := r.doc.getElementsByTagName("div")[0]
		assert.Zero(t, r.getLinkDensity(div))
	})

	t.Run("should always be zero when disabled", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div><a href="/other">12345</a></div></body></html>`, testURI, IgnoreLinkDensity(true))
		div := r.doc.getElementsByTagName("div")[0]
		assert.Zero(t, r.getLinkDensity(div))
	})
}

func TestGetClassWeight(t *testing.T) {
	r := mustNewParser(t, `<html><body>
<div id="one" class="article-body"></div>
<div id="two" class="comment"></div>
<div id="three" class="sidebar" ></div>
</body></html>`, testURI)

	assert.Equal(t, 25.0, r.getClassWeight(r.doc.getElementById("one")))
	assert.Equal(t, -25.0, r.getClassWeight(r.doc.getElementById("two")))
	assert.Equal(t, -25.0, r.getClassWeight(r.doc.getElementById("three")))

	r.removeFlag(flagWeightClasses)
	assert.Zero(t, r.getClassWeight(r.doc.getElementById("two")))
}

func TestUnlikelyCandidateMatching(t *testing.T) {
	t.Run("should flag webflow rich text wrappers", func(t *testing.T) {
		assert.True(t, unlikelyCandidates.MatchString("rich-text-block main w-richtext"))
		assert.True(t, unlikelyCandidates.MatchString("rich-text-block_ataglance at-a-glance test w-richtext"))
		assert.False(t, unlikelyCandidates.MatchString("rich-text-block"))
	})

	t.Run("should not rescue prefixed article tokens", func(t *testing.T) {
		for _, cls := range []string{"m_article", "outstream_article", "tl_article", "article-breadcrumbs"} {
			assert.True(t, okMaybeItsACandidate.MatchString(cls), cls)
			assert.True(t, notACandidateAfterAll.MatchString(cls), cls)
		}
		assert.False(t, notACandidateAfterAll.MatchString("article-body"))
	})
}

func TestHeaderDuplicatesTitle(t *testing.T) {
	r := mustNewParser(t, `<html><body><h1>Understanding the Tides of the Atlantic Ocean</h1><h2>An unrelated subheading about ships</h2></body></html>`, testURI)
	r.articleTitle = "Understanding the Tides of the Atlantic Ocean | Ocean Blog"

	h1 := r.doc.getElementsByTagName("h1")[0]
	h2 := r.doc.getElementsByTagName("h2")[0]

	assert.True(t, r.headerDuplicatesTitle(h1))
	// The page title wrapped the heading, so the heading wins.
	assert.Equal(t, "Understanding the Tides of the Atlantic Ocean", r.articleTitle)
	assert.False(t, r.headerDuplicatesTitle(h2))
}
