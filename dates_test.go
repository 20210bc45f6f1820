package readability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnyDate(t *testing.T) {
	for _, tc := range []struct {
		text string
		want time.Time
	}{
		{"2023-05-01T10:00:00Z", time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2023-05-01 10:00:00", time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2023-05-01", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2023/05/01", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"05/01/2023", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"May 1, 2023", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"1 May 2023", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"Mon, 01 May 2023 10:00:00 GMT", time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2023年5月1日", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
	} {
		t.Run(tc.text, func(t *testing.T) {
			got := parseAnyDate(tc.text)
			require.NotNil(t, got)
			assert.Equal(t, tc.want.Unix(), got.Unix())
		})
	}

	assert.Nil(t, parseAnyDate(""))
	assert.Nil(t, parseAnyDate("not a date"))
	assert.Nil(t, parseAnyDate("yesterday"))
}

func TestExtractPublishedDateFromAuthor(t *testing.T) {
	t.Run("should split the author from the date", func(t *testing.T) {
		author, date := extractPublishedDateFromAuthor("By Jane Doe, January 2, 2023")
		assert.Equal(t, "Jane Doe", author)
		require.NotNil(t, date)
		assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC).Unix(), date.Unix())
	})

	t.Run("should strip ordinal suffixes", func(t *testing.T) {
		author, date := extractPublishedDateFromAuthor("Jane Doe · August 21st, 2019")
		assert.Equal(t, "Jane Doe", author)
		require.NotNil(t, date)
		assert.Equal(t, time.Date(2019, 8, 21, 0, 0, 0, 0, time.UTC).Unix(), date.Unix())
	})

	t.Run("should keep a plain author untouched", func(t *testing.T) {
		author, date := extractPublishedDateFromAuthor("Jane Doe")
		assert.Equal(t, "Jane Doe", author)
		assert.Nil(t, date)
	})

	t.Run("should handle empty bylines", func(t *testing.T) {
		author, date := extractPublishedDateFromAuthor("")
		assert.Empty(t, author)
		assert.Nil(t, date)
	})
}

func TestExtractPublishedDateFromURL(t *testing.T) {
	d := extractPublishedDateFromURL("https://example.com/2023/05/01/some-post.html")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC).Unix(), d.Unix())

	d = extractPublishedDateFromURL("https://example.com/2023-05-01-some-post")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC).Unix(), d.Unix())

	assert.Nil(t, extractPublishedDateFromURL("https://example.com/some-post"))
}
