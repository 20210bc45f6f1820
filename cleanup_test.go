package readability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkDataTables(t *testing.T) {
	doc, err := parseDocument(`<html><body>
<table id="layout" role="presentation"><tr><td>nav</td></tr></table>
<table id="data"><thead><tr><th>h</th></tr></thead><tr><td>1</td></tr></table>
<table id="described" summary="quarterly results"><tr><td>1</td></tr></table>
<table id="tiny"><tr><td>1</td><td>2</td></tr></table>
</body></html>`, testURI)
	require.NoError(t, err)

	markDataTables(doc.Body)

	assert.False(t, isDataTable(doc.getElementById("layout")))
	assert.True(t, isDataTable(doc.getElementById("data")))
	assert.True(t, isDataTable(doc.getElementById("described")))
	assert.False(t, isDataTable(doc.getElementById("tiny")))
}

func TestGetRowAndColumnCount(t *testing.T) {
	doc, err := parseDocument(`<html><body><table>
<tr rowspan="2"><td colspan="3">a</td><td>b</td></tr>
<tr><td>c</td></tr>
</table></body></html>`, testURI)
	require.NoError(t, err)

	rows, columns := getRowAndColumnCount(doc.getElementsByTagName("table")[0])
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, columns)
}

func TestFixLazyImages(t *testing.T) {
	t.Run("should promote data-src to src", func(t *testing.T) {
		doc, _ := parseDocument(`<html><body><img data-src="https://fakehost/real.jpg"/></body></html>`, testURI)
		fixLazyImages(doc.Body)
		assert.Equal(t, "https://fakehost/real.jpg", doc.getElementsByTagName("img")[0].getSrc())
	})

	t.Run("should prefer data-lazy-src over the placeholder", func(t *testing.T) {
		doc, _ := parseDocument(`<html><body><img src="low.jpg" data-lazy-src="hi.jpg"/></body></html>`, testURI)
		fixLazyImages(doc.Body)
		assert.Equal(t, "hi.jpg", doc.getElementsByTagName("img")[0].getSrc())
	})

	t.Run("should drop square tracking pixels", func(t *testing.T) {
		doc, _ := parseDocument(`<html><body><img src="pixel.gif" width="1" height="1"/><img src="photo.jpg" width="640" height="640"/></body></html>`, testURI)
		fixLazyImages(doc.Body)
		imgs := doc.getElementsByTagName("img")
		require.Equal(t, 1, len(imgs))
		assert.Equal(t, "photo.jpg", imgs[0].getSrc())
	})

	t.Run("should give a bare figure an image from its attributes", func(t *testing.T) {
		doc, _ := parseDocument(`<html><body><figure data-image="https://fakehost/photo.jpg"></figure></body></html>`, testURI)
		fixLazyImages(doc.Body)
		imgs := doc.getElementsByTagName("img")
		require.Equal(t, 1, len(imgs))
		assert.Equal(t, "https://fakehost/photo.jpg", imgs[0].getSrc())
	})
}

func TestGetTextDensity(t *testing.T) {
	doc, err := parseDocument(`<html><body><div><h2>12345</h2>12345</div></body></html>`, testURI)
	require.NoError(t, err)
	div := doc.getElementsByTagName("div")[0]
	assert.InDelta(t, 0.5, getTextDensity(div, "h2"), 0.001)
	assert.Zero(t, getTextDensity(div, "h3"))
}

func TestIsProbablyNavigation(t *testing.T) {
	doc, err := parseDocument(`<html><body>
<ul id="pager"><li class="next"><a href="/page/2">Older posts</a></li></ul>
<ul id="list"><li>plain item</li></ul>
</body></html>`, testURI)
	require.NoError(t, err)

	assert.True(t, isProbablyNavigation(doc.getElementById("pager")))
	assert.False(t, isProbablyNavigation(doc.getElementById("list")))
}

func TestClean(t *testing.T) {
	t.Run("should keep allowed video embeds", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><iframe src="https://www.youtube.com/embed/abc123"></iframe><iframe src="https://ads.example/frame"></iframe></body></html>`, testURI)
		r.clean(r.doc.Body, "iframe")
		frames := r.doc.getElementsByTagName("iframe")
		require.Equal(t, 1, len(frames))
		assert.Contains(t, frames[0].getSrc(), "youtube.com")
	})

	t.Run("should unwrap a lone blockquote instead of removing it", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><aside><blockquote>worth keeping</blockquote></aside></body></html>`, testURI)
		r.clean(r.doc.Body, "aside")
		assert.Empty(t, r.doc.getElementsByTagName("aside"))
		quotes := r.doc.getElementsByTagName("blockquote")
		require.Equal(t, 1, len(quotes))
		assert.Equal(t, "worth keeping", quotes[0].getTextContent())
	})
}

func TestCleanHeaders(t *testing.T) {
	t.Run("should drop a heading that repeats the title", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div><h1>Understanding the Tides of the Atlantic Ocean</h1><h2>Keep this one</h2></div></body></html>`, testURI)
		r.articleTitle = "Understanding the Tides of the Atlantic Ocean"
		r.cleanHeaders(r.doc.Body)
		assert.Empty(t, r.doc.getElementsByTagName("h1"))
		assert.Equal(t, 1, len(r.doc.getElementsByTagName("h2")))
	})

	t.Run("should drop a heading with a negative class weight", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div><h2 class="sidebar">Related reading</h2></div></body></html>`, testURI)
		r.articleTitle = "Something Else Entirely"
		r.cleanHeaders(r.doc.Body)
		assert.Empty(t, r.doc.getElementsByTagName("h2"))
	})
}

func TestCleanMatchedNodes(t *testing.T) {
	r := mustNewParser(t, `<html><body><div id="root"><p>keep</p><div class="sharedaddy">share buttons</div></div></body></html>`, testURI)
	root := r.doc.getElementById("root")
	r.cleanMatchedNodes(root, func(node *Node, matchString string) bool {
		return shareElements.MatchString(matchString)
	})
	assert.Empty(t, root.findAll(func(n *Node) bool { return n.getClassName() == "sharedaddy" }))
	assert.Equal(t, 1, len(root.getElementsByTagName("p")))
}
