package readability

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. The list mirrors the formats seen in
// the wild in meta tags, JSON-LD, time elements and bylines.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"01/02/2006",
	"01-02-2006",
	"1/2/2006",
	"02/01/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.UnixDate,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"January 2, 2006 15:04:05",
	"2006年1月2日",
}

// parseAnyDate parses the text against a ladder of known date layouts.
// It returns nil when nothing matches.
func parseAnyDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, text); err == nil {
			return &d
		}
	}
	return nil
}

// extractPublishedDateFromAuthor splits a byline like
// "By Jane Doe, January 2, 2006" into the author name and the date.
func extractPublishedDateFromAuthor(bylineText string) (string, *time.Time) {
	if bylineText == "" {
		return "", nil
	}
	author := bylinePrefix.ReplaceAllString(strings.TrimSpace(bylineText), "")

	if m := longDateAnywhere.FindString(author); m != "" {
		if d := parseAnyDate(ordinalSuffix.ReplaceAllString(m, "$1")); d != nil {
			author = strings.TrimSpace(strings.Replace(author, m, "", 1))
			author = strings.Trim(author, " ,|-·")
			return author, d
		}
	}

	if m := chineseDate.FindString(author); m != "" {
		normalized := strings.ReplaceAll(m, "年", "-")
		normalized = strings.ReplaceAll(normalized, "月", "-")
		normalized = strings.ReplaceAll(normalized, "日", "")
		if d := parseAnyDate(normalized); d != nil {
			author = strings.TrimSpace(strings.Replace(author, m, "", 1))
			return author, d
		}
	}

	return author, nil
}

// extractPublishedDateFromURL finds a yyyy/mm/dd or yyyy-mm-dd segment in
// the document URL.
func extractPublishedDateFromURL(uri string) *time.Time {
	m := urlDate.FindStringSubmatch(uri)
	if m == nil {
		return nil
	}
	return parseAnyDate(m[1] + "-" + m[3] + "-" + m[5])
}
