/*
 * Copyright (c) 2010 Arc90 Inc
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package readability

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type metadata struct {
	title            string
	byline           string
	excerpt          string
	siteName         string
	siteIcon         string
	previewImage     string
	locale           string
	publishedDateRaw string
	publishedDate    *time.Time
}

// getJSONLD tries to extract metadata from JSON-LD scripts embedded in the
// document. Multiple scripts are merged into a single graph; scripts that
// fail to decode are skipped.
func (r *Readability) getJSONLD() *metadata {
	m := &metadata{}

	var graph []any
	declaredContext := ""
	found := false
	for _, script := range r.doc.getElementsByTagName("script") {
		if script.getAttribute("type") != "application/ld+json" {
			continue
		}
		content := cdata.ReplaceAllString(script.getTextContent(), "")

		var parsed any
		if err := json.Unmarshal([]byte(content), &parsed); err != nil {
			r.log.Debug().Err(err).Msg("skipping ld+json script that fails to decode")
			continue
		}
		found = true

		switch v := parsed.(type) {
		case []any:
			graph = append(graph, v...)
		case map[string]any:
			if len(graph) == 0 {
				if c, ok := v["@context"].(string); ok {
					declaredContext = c
				}
			}
			graph = append(graph, v)
		}
	}
	if !found || len(graph) == 0 {
		return m
	}

	var root map[string]any
	if len(graph) == 1 {
		var ok bool
		root, ok = graph[0].(map[string]any)
		if !ok {
			return m
		}
		if c, ok := root["@context"].(string); ok {
			declaredContext = c
		}
		if !schemaUrl.MatchString(declaredContext) {
			r.log.Debug().Str("context", declaredContext).Msg("ld+json context did not match schema.org")
			return m
		}
	} else {
		// merged scripts always get a schema.org context
		root = map[string]any{"@context": "https://schema.org", "@graph": graph}
	}

	info := root
	if _, hasType := root["@type"]; !hasType {
		info = nil
		if g, ok := root["@graph"].([]any); ok {
			for _, it := range g {
				rec, ok := it.(map[string]any)
				if !ok {
					continue
				}
				if t, _ := rec["@type"].(string); jsonLdArticleTypes.MatchString(t) {
					info = rec
					break
				}
			}
		}
		if info == nil {
			return m
		}
	}

	name, _ := info["name"].(string)
	headline, _ := info["headline"].(string)
	switch {
	case name != "" && headline != "" && name != headline:
		// Some sites put their own name into "name" and the article title
		// into "headline". Use whichever one resembles the page title.
		title := r.getArticleTitle()
		nameMatches := textSimilarity(name, title) > 0.75
		headlineMatches := textSimilarity(headline, title) > 0.75
		if headlineMatches && !nameMatches {
			m.title = headline
		} else {
			m.title = name
		}
	case name != "":
		m.title = strings.TrimSpace(name)
	case headline != "":
		m.title = strings.TrimSpace(headline)
	}

	switch author := info["author"].(type) {
	case string:
		m.byline = strings.TrimSpace(author)
	case map[string]any:
		if n, ok := author["name"].(string); ok {
			m.byline = strings.TrimSpace(n)
		} else if id, ok := author["@id"].(string); ok {
			m.byline = findJSONLDRecordByID(root, id, "name")
		}
	case []any:
		var names []string
		for _, a := range author {
			rec, ok := a.(map[string]any)
			if !ok {
				continue
			}
			if n, ok := rec["name"].(string); ok {
				names = append(names, strings.TrimSpace(n))
			}
		}
		m.byline = strings.Join(names, ", ")
	}

	if desc, ok := info["description"].(string); ok {
		m.excerpt = strings.TrimSpace(desc)
	}
	if publisher, ok := info["publisher"].(map[string]any); ok {
		if n, ok := publisher["name"].(string); ok {
			m.siteName = strings.TrimSpace(n)
		}
	}
	if date, ok := info["datePublished"].(string); ok {
		m.publishedDateRaw = strings.TrimSpace(date)
	}

	switch image := info["image"].(type) {
	case string:
		m.previewImage = strings.TrimSpace(image)
	case []any:
		if len(image) > 0 {
			if s, ok := image[0].(string); ok {
				m.previewImage = s
			}
		}
	case map[string]any:
		if u, ok := image["url"].(string); ok {
			m.previewImage = strings.TrimSpace(u)
		} else if id, ok := image["@id"].(string); ok {
			m.previewImage = findJSONLDRecordByID(root, id, "url")
		}
	}

	return m
}

// findJSONLDRecordByID resolves an @id reference against the graph and
// returns the requested string field of the matching record.
func findJSONLDRecordByID(root map[string]any, id, field string) string {
	graph, ok := root["@graph"].([]any)
	if !ok {
		return ""
	}
	for _, it := range graph {
		rec, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if recID, _ := rec["@id"].(string); recID == id {
			if v, ok := rec[field].(string); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// getArticleMetadata collects metadata out of meta tags, merging in
// whatever JSON-LD already provided.
func (r *Readability) getArticleMetadata(jsonld *metadata) *metadata {
	if jsonld == nil {
		jsonld = &metadata{}
	}
	m := &metadata{}
	values := map[string]string{}

	for _, element := range r.doc.getElementsByTagName("meta") {
		elementName := element.getAttribute("name")
		elementProperty := element.getAttribute("property")
		content := strings.TrimSpace(element.getAttribute("content"))
		if content == "" {
			continue
		}

		matched := false
		if elementProperty != "" {
			if match := propertyPattern.FindString(elementProperty); match != "" {
				matched = true
				name := strings.ToLower(multipleWhitespaces.ReplaceAllString(match, ""))

				if strings.Contains(name, "image") {
					// skip width and height numbers that also match
					if _, err := strconv.ParseFloat(content, 64); err == nil {
						continue
					}
					if !r.validURL(content) {
						continue
					}
				}
				values[name] = content
			}
		}
		if !matched && elementName != "" && namePattern.MatchString(elementName) {
			name := strings.ToLower(multipleWhitespaces.ReplaceAllString(elementName, ""))
			name = strings.ReplaceAll(name, ".", ":")
			values[name] = content
		}
	}

	// Pick the shortest out of the candidate titles, so that e.g. a
	// "Title | Site Name" variant loses to the plain "Title" one.
	titles := []string{
		jsonld.title,
		values["twitter:title"],
		values["title"],
		values["dc:title"],
		values["dcterm:title"],
		values["og:title"],
		values["weibo:article:title"],
		values["weibo:webpage:title"],
	}
	m.title = titles[0]
	for _, t := range titles[1:] {
		if m.title == "" || (t != "" && m.title != t && strings.Contains(m.title, t)) {
			m.title = t
		}
	}
	if m.title == "" {
		m.title = r.getArticleTitle()
	}

	m.byline = anyOf(jsonld.byline,
		values["dc:creator"],
		values["dcterm:creator"],
		values["author"])

	m.excerpt = anyOf(jsonld.excerpt,
		values["twitter:description"],
		values["description"],
		values["dc:description"],
		values["dcterm:description"],
		values["og:description"],
		values["weibo:article:description"],
		values["weibo:webpage:description"])

	m.siteName = anyOf(jsonld.siteName,
		values["og:site_name"],
		values["twitter:site"],
		values["site_name"],
		values["twitter:domain"])

	m.siteIcon = r.getSiteIcon()

	m.publishedDateRaw = anyOf(jsonld.publishedDateRaw,
		values["date"],
		values["article:published_time"],
		values["article:published"],
		values["published_time"],
		values["published"],
		values["article:date"])

	m.previewImage = anyOf(
		values["image"],
		values["twitter:image"],
		values["dc:image"],
		values["dcterm:image"],
		values["og:image"],
		values["weibo:article:image"],
		values["weibo:webpage:image"],
		jsonld.previewImage)

	m.locale = values["og:locale"]

	// meta values are often escaped with HTML entities
	m.title = unescapeHtmlEntities(m.title)
	m.byline = unescapeHtmlEntities(m.byline)
	m.excerpt = unescapeHtmlEntities(m.excerpt)
	m.siteName = unescapeHtmlEntities(m.siteName)
	m.siteIcon = unescapeHtmlEntities(m.siteIcon)
	m.previewImage = unescapeHtmlEntities(m.previewImage)

	if m.previewImage != "" {
		if abs := r.toAbsoluteFromOrigin(m.previewImage); abs != "" {
			m.previewImage = abs
		} else {
			m.previewImage = ""
		}
	}

	if raw := unescapeHtmlEntities(m.publishedDateRaw); raw != "" {
		m.publishedDate = parseAnyDate(raw)
	}

	r.log.Debug().
		Str("title", m.title).
		Str("byline", m.byline).
		Str("siteName", m.siteName).
		Msg("collected metadata")

	return m
}

func (r *Readability) getSiteIcon() string {
	for _, link := range r.doc.getElementsByTagName("link") {
		switch link.getAttribute("rel") {
		case "apple-touch-icon", "shortcut icon", "icon":
			href := link.getAttribute("href")
			if href == "" {
				continue
			}
			if b64DataUrl.MatchString(href) {
				return href
			}
			return r.toAbsoluteURI(href)
		}
	}
	return ""
}

func (r *Readability) validURL(ref string) bool {
	origin := r.origin()
	if origin == nil {
		_, err := url.Parse(ref)
		return err == nil
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return false
	}
	_ = origin.ResolveReference(parsed)
	return true
}

// toAbsoluteFromOrigin resolves a possibly relative URL against the origin
// of the document base URI.
func (r *Readability) toAbsoluteFromOrigin(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	origin := r.origin()
	if origin == nil {
		if parsed.IsAbs() {
			return parsed.String()
		}
		return ""
	}
	return origin.ResolveReference(parsed).String()
}

func (r *Readability) origin() *url.URL {
	base, err := url.Parse(r.doc.getBaseURI())
	if err != nil || base.Scheme == "" {
		return nil
	}
	return &url.URL{Scheme: base.Scheme, Host: base.Host}
}

// getArticleTitle guesses the article title from the document title,
// trimming site-name decorations around common separators.
func (r *Readability) getArticleTitle() string {
	curTitle := strings.TrimSpace(r.doc.title)
	origTitle := curTitle

	titleHadHierarchicalSeparators := false

	if titleFinalPart.MatchString(curTitle) {
		// If there's a separator in the title, first remove the final part
		titleHadHierarchicalSeparators = titleSeparators.MatchString(curTitle)
		if idx := lastSeparatorIndex(origTitle); idx != -1 {
			curTitle = strings.TrimSpace(origTitle[:idx])
		}

		// If the resulting title is too short (3 words or fewer), remove
		// the first part instead:
		if wordCount(curTitle) < 3 {
			if idx := firstSeparatorIndex(origTitle); idx != -1 {
				curTitle = strings.TrimSpace(origTitle[idx+1:])
			}
		}
	} else if strings.Contains(curTitle, ": ") {
		// Check if we have an heading containing this exact string, so we
		// could assume it's the full title.
		headings := append(r.doc.getElementsByTagName("h1"), r.doc.getElementsByTagName("h2")...)
		trimmedTitle := strings.TrimSpace(curTitle)
		match := false
		for _, heading := range headings {
			if strings.TrimSpace(heading.getTextContent()) == trimmedTitle {
				match = true
				break
			}
		}

		// If we don't, let's extract the title out of the original title string.
		if !match {
			curTitle = origTitle[strings.LastIndex(origTitle, ":")+1:]

			// If the title is now too short, try the first colon instead:
			if wordCount(curTitle) < 3 {
				curTitle = origTitle[strings.Index(origTitle, ":")+1:]
			} else if wordCount(origTitle[:strings.Index(origTitle, ":")]) > 5 {
				// But if we have too many words before the colon there's
				// something weird with the titles and the H tags so let's
				// just use the original title instead
				curTitle = origTitle
			}
		}
	} else if len(curTitle) > 150 || len(curTitle) < 15 {
		hOnes := r.doc.getElementsByTagName("h1")
		if len(hOnes) == 1 {
			curTitle = getInnerText(hOnes[0], true)
		}
	}

	curTitle = normalize.ReplaceAllString(strings.TrimSpace(curTitle), " ")
	// If we now have 4 words or fewer as our title, and either no
	// 'hierarchical' separators (\, /, > or ») were found in the original
	// title or we decreased the number of words by more than 1 word, use
	// the original title.
	curTitleWordCount := wordCount(curTitle)
	if curTitleWordCount <= 4 &&
		(!titleHadHierarchicalSeparators ||
			curTitleWordCount != wordCount(separators.ReplaceAllString(origTitle, ""))-1) {
		curTitle = origTitle
	}

	return curTitle
}

func lastSeparatorIndex(title string) int {
	locs := titleFinalPart.FindAllStringIndex(title, -1)
	if len(locs) == 0 {
		return -1
	}
	return locs[len(locs)-1][0]
}

func firstSeparatorIndex(title string) int {
	loc := titleFinalPart.FindStringIndex(title)
	if loc == nil {
		return -1
	}
	// points at the separator rune inside " | "
	return loc[0] + 1
}

func unescapeHtmlEntities(str string) string {
	if str == "" {
		return str
	}

	out := entityReferences.ReplaceAllStringFunc(str, func(tag string) string {
		switch tag {
		case "&quot;":
			return `"`
		case "&amp;":
			return "&"
		case "&apos;":
			return "'"
		case "&lt;":
			return "<"
		case "&gt;":
			return ">"
		}
		return tag
	})
	out = htmlCharCodes.ReplaceAllStringFunc(out, func(code string) string {
		groups := htmlCharCodes.FindStringSubmatch(code)
		var num int64
		var err error
		if groups[1] != "" {
			num, err = strconv.ParseInt(groups[1], 16, 32)
		} else {
			num, err = strconv.ParseInt(groups[2], 10, 32)
		}
		if err != nil {
			return code
		}
		return string(rune(num))
	})
	return out
}
