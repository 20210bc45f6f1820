package readability

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixRelativeUris(t *testing.T) {
	r := mustNewParser(t, `<html><body><div id="content">
<a id="rel" href="/about">about</a>
<a id="hash" href="#footnote">note</a>
<a id="js" href="javascript:void(0)">click me</a>
<img src="images/photo.jpg"/>
</div></body></html>`, testURI)
	content := r.doc.getElementById("content")

	r.fixRelativeUris(content)

	assert.Equal(t, "http://fakehost/about", r.doc.getElementById("rel").getHref())
	// In-page links stay relative as long as no base element moved the
	// document elsewhere.
	assert.Equal(t, "#footnote", r.doc.getElementById("hash").getHref())
	assert.Nil(t, r.doc.getElementById("js"))
	assert.Contains(t, content.getInnerHTML(), "click me")
	assert.Equal(t, "http://fakehost/test/images/photo.jpg", r.doc.getElementsByTagName("img")[0].getSrc())
}

func TestCleanDimension(t *testing.T) {
	assert.Equal(t, 640, cleanDimension("640"))
	assert.Equal(t, 640, cleanDimension(" 640 "))
	assert.Zero(t, cleanDimension("640px"))
	assert.Zero(t, cleanDimension("100%"))
	assert.Zero(t, cleanDimension(""))
}

func TestCreateImageProxyLinks(t *testing.T) {
	proxy := func(src string, width, height int) string {
		return fmt.Sprintf("https://proxy.example/%dx%d/%s", width, height, src)
	}

	t.Run("should route the src through the proxy", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div id="content"><img src="/photo.jpg" width="640" height="480" crossorigin="anonymous"/></div></body></html>`, testURI, ImageProxy(proxy))
		r.createImageProxyLinks(r.doc.getElementById("content"))

		img := r.doc.getElementsByTagName("img")[0]
		assert.Equal(t, "https://proxy.example/640x480/http://fakehost/photo.jpg", img.getSrc())
		assert.Equal(t, "http://fakehost/photo.jpg", img.getAttribute("data-omnivore-original-src"))
		assert.False(t, img.hasAttribute("crossorigin"))
	})

	t.Run("should rewrite srcset entries and keep the descriptors", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div id="content"><img src="/a.jpg" srcset="/a.jpg 640w, /b.jpg 2x"/></div></body></html>`, testURI, ImageProxy(proxy))
		r.createImageProxyLinks(r.doc.getElementById("content"))

		img := r.doc.getElementsByTagName("img")[0]
		assert.Equal(t,
			"https://proxy.example/640x0/http://fakehost/a.jpg 640w, https://proxy.example/0x0/http://fakehost/b.jpg 2x",
			img.getSrcset())
	})

	t.Run("should leave data uri images alone", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div id="content"><img src="data:image/png;base64,AAAA"/></div></body></html>`, testURI, ImageProxy(proxy))
		r.createImageProxyLinks(r.doc.getElementById("content"))
		assert.Equal(t, "data:image/png;base64,AAAA", r.doc.getElementsByTagName("img")[0].getSrc())
	})

	t.Run("should do nothing without a configured proxy", func(t *testing.T) {
		r := mustNewParser(t, `<html><body><div id="content"><img src="/photo.jpg"/></div></body></html>`, testURI)
		r.createImageProxyLinks(r.doc.getElementById("content"))
		assert.Equal(t, "/photo.jpg", r.doc.getElementsByTagName("img")[0].getSrc())
	})
}

func TestSimplifyNestedElements(t *testing.T) {
	r := mustNewParser(t, `<html><body><div id="content"><div><p>some text</p></div></div></body></html>`, testURI)
	content := r.doc.getElementById("content")

	r.simplifyNestedElements(content)

	divs := r.doc.getElementsByTagName("div")
	require.Equal(t, 1, len(divs))
	assert.Equal(t, "content", divs[0].getId())
	assert.Equal(t, "some text", divs[0].getTextContent())
}

func TestCleanClasses(t *testing.T) {
	r := mustNewParser(t, `<html><body><div id="content" class="page wrapper"><p class="intro fancy">hello</p></div></body></html>`, testURI)
	content := r.doc.getElementById("content")

	r.cleanClasses(content)

	assert.Equal(t, "page", content.getClassName())
	assert.False(t, r.doc.getElementsByTagName("p")[0].hasAttribute("class"))
}
