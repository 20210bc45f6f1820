package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func longSentence(n int) string {
	return strings.Repeat("The tide rises and the tide falls again. ", n)
}

func TestIsProbablyReaderable(t *testing.T) {
	t.Run("should accept a page with a long paragraph", func(t *testing.T) {
		page := `<html><body><p>` + longSentence(15) + `</p></body></html>`
		assert.True(t, IsProbablyReaderable(page))
	})

	t.Run("should reject a page with only short snippets", func(t *testing.T) {
		page := `<html><body><p>hello</p><p>world</p></body></html>`
		assert.False(t, IsProbablyReaderable(page))
	})

	t.Run("should ignore hidden content", func(t *testing.T) {
		page := `<html><body><p style="display: none">` + longSentence(15) + `</p></body></html>`
		assert.False(t, IsProbablyReaderable(page))
	})

	t.Run("should ignore unlikely candidates", func(t *testing.T) {
		page := `<html><body><p class="comment">` + longSentence(15) + `</p></body></html>`
		assert.False(t, IsProbablyReaderable(page))
	})

	t.Run("should count br separated divs", func(t *testing.T) {
		page := `<html><body><div>` + longSentence(8) + `<br/><br/>` + longSentence(8) + `</div></body></html>`
		assert.True(t, IsProbablyReaderable(page))
	})

	t.Run("should honor a custom minimum length", func(t *testing.T) {
		page := `<html><body><p>` + longSentence(15) + `</p></body></html>`
		assert.False(t, IsProbablyReaderable(page, MinContentLength(10000)))
	})

	t.Run("should honor a custom visibility checker", func(t *testing.T) {
		page := `<html><body><p>` + longSentence(15) + `</p></body></html>`
		called := false
		assert.False(t, IsProbablyReaderable(page, VisibilityChecker(func(n *html.Node) bool {
			called = true
			return false
		})))
		assert.True(t, called)
	})
}
