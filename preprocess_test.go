package readability

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestReplaceBrs(t *testing.T) {
	r := mustNewParser(t, `<html><body><div>foo<br>bar<br> <br><br>abc</div></body></html>`, testURI)
	r.prepDocument(context.Background())

	got := r.doc.Body.getInnerHTML()
	if diff := cmp.Diff(`<div>foo<br/>bar<p> abc</p></div>`, got); diff != "" {
		t.Errorf("unexpected body (-want +got):\n%s", diff)
	}
}

func TestPrepDocument(t *testing.T) {
	t.Run("should remove style tags", func(t *testing.T) {
		r := mustNewParser(t, `<html><head><style>p { color: red }</style></head><body><p>hi</p></body></html>`, testURI)
		r.prepDocument(context.Background())
		assert.Empty(t, r.doc.getElementsByTagName("style"))
	})

	t.Run("should turn fonts into spans", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><p><font size="2">hello</font></p></body></html>`, testURI)
		r.prepDocument(context.Background())
		assert.Empty(t, r.doc.getElementsByTagName("font"))
		assert.Equal(t, 1, len(r.doc.getElementsByTagName("span")))
	})
}

func TestUnwrapNoscriptImages(t *testing.T) {
	t.Run("should remove images without any source", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><img alt="decoration"/><img src="keep.jpg"/></body></html>`, testURI)
		r.unwrapNoscriptImages()
		imgs := r.doc.getElementsByTagName("img")
		assert.Equal(t, 1, len(imgs))
		assert.Equal(t, "keep.jpg", imgs[0].getSrc())
	})

	t.Run("should prefer the noscript image over its placeholder sibling", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div><img src="https://fakehost/low.jpg" class="lazy"/><noscript><img src="https://fakehost/hi.jpg"/></noscript></div></body></html>`, testURI)
		r.unwrapNoscriptImages()

		imgs := r.doc.getElementsByTagName("img")
		assert.Equal(t, 1, len(imgs))
		assert.Equal(t, "https://fakehost/hi.jpg", imgs[0].getSrc())
		assert.Equal(t, "https://fakehost/low.jpg", imgs[0].getAttribute("data-old-src"))
	})
}

func TestIsSingleImage(t *testing.T) {
	doc, _ := parseDocument(`<html><body>
<div id="one"><img src="a.jpg"/></div>
<div id="two"><p><img src="a.jpg"/></p></div>
<div id="three"><img src="a.jpg"/>caption text</div>
<div id="four"><img src="a.jpg"/><img src="b.jpg"/></div>
</body></html>`, testURI)

	assert.True(t, isSingleImage(doc.getElementById("one")))
	assert.True(t, isSingleImage(doc.getElementById("two")))
	assert.False(t, isSingleImage(doc.getElementById("three")))
	assert.False(t, isSingleImage(doc.getElementById("four")))
}

func TestIsPhrasingContent(t *testing.T) {
	doc, _ := parseDocument(`<html><body><p>text <b>bold</b> <a href="/x"><span>inner</span></a></p><div>block</div></body></html>`, testURI)
	p := doc.getElementsByTagName("p")[0]

	assert.True(t, isPhrasingContent(p.ChildNodes[0]))
	assert.True(t, isPhrasingContent(doc.getElementsByTagName("b")[0]))
	assert.True(t, isPhrasingContent(doc.getElementsByTagName("a")[0]))
	assert.False(t, isPhrasingContent(doc.getElementsByTagName("div")[0]))
}

func TestIsElementWithoutContent(t *testing.T) {
	doc, _ := parseDocument(`<html><body><div id="empty"></div><div id="brs"><br/><br/></div><div id="full">text</div></body></html>`, testURI)
	assert.True(t, isElementWithoutContent(doc.getElementById("empty")))
	assert.True(t, isElementWithoutContent(doc.getElementById("brs")))
	assert.False(t, isElementWithoutContent(doc.getElementById("full")))
}
