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
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
)

// prepArticle prepares the article node for display. Cleans out any
// inline styles, iframes, forms, and strips extraneous <p> tags, etc.
func (r *Readability) prepArticle(ctx context.Context, articleContent *Node) {
	// Newsletters tend to be a single table all the way down, flattening
	// it first makes the conditional cleaning treat it as regular prose.
	if r.options.flattenTables {
		for _, t := range getAllNodesWithTag(articleContent, "table", "tbody", "thead", "tfoot", "tr", "td", "th") {
			if !slices.Contains(r.options.classesToPreserve, t.getClassName()) {
				r.setNodeTag(t, "DIV")
			}
		}
	}

	r.createPlaceholders(ctx, articleContent)

	r.cleanStyles(articleContent)

	// Check for data tables before we continue, to avoid removing items
	// in those tables, which will often be isolated even though they're
	// visually linked to other content-ful elements (text, images, etc).
	markDataTables(articleContent)

	fixLazyImages(articleContent)

	// Clean out junk from the article content
	r.cleanConditionally(articleContent, "form")
	r.cleanConditionally(articleContent, "fieldset")
	r.clean(articleContent, "object")
	r.clean(articleContent, "embed")
	r.clean(articleContent, "footer")
	r.clean(articleContent, "link")
	r.clean(articleContent, "aside")

	// Clean out elements with little content that have "share" in their
	// id/class combinations from final top candidates, which means we
	// don't remove the top candidates even they have "share".
	shareElementThreshold := defaultCharThreshold
	for _, topCandidate := range articleContent.Children {
		r.cleanMatchedNodes(topCandidate, func(node *Node, matchString string) bool {
			if !shareElements.MatchString(matchString) || len(node.getTextContent()) >= shareElementThreshold {
				return false
			}
			// Keep blocks holding a meaningful image.
			for _, img := range node.getElementsByTagName("img") {
				if width, err := strconv.Atoi(img.getAttribute("width")); err == nil && width > 100 {
					return false
				}
			}
			return true
		})
	}

	r.clean(articleContent, "iframe")
	r.clean(articleContent, "input")
	r.clean(articleContent, "textarea")
	r.clean(articleContent, "select")
	r.cleanConditionally(articleContent, "button")
	r.cleanHeaders(articleContent)

	// Do these last as the previous stuff may have removed junk that
	// will affect these
	r.cleanConditionally(articleContent, "table")
	r.cleanConditionally(articleContent, "ul")
	r.cleanConditionally(articleContent, "div")

	// Replace H1 with H2 as H1 should be only title that is displayed
	// separately
	r.replaceNodeTags(getAllNodesWithTag(articleContent, "h1"), "h2")

	// Remove extra paragraphs
	removeNodes(articleContent.getElementsByTagName("p"), func(paragraph *Node) bool {
		imgCount := len(paragraph.getElementsByTagName("img"))
		embedCount := len(paragraph.getElementsByTagName("embed"))
		objectCount := len(paragraph.getElementsByTagName("object"))
		// At this point, nasty iframes have been removed, only remain
		// embedded video ones.
		iframeCount := len(paragraph.getElementsByTagName("iframe"))
		totalCount := imgCount + embedCount + objectCount + iframeCount

		isEmpty := totalCount == 0 && getInnerText(paragraph, false) == "" &&
			!slices.Contains(placeholderClasses, paragraph.getClassName())

		return isEmpty || hasRedundantImage(paragraph)
	})

	for _, br := range getAllNodesWithTag(articleContent, "br") {
		next := nextNode(br.NextSibling)
		if next != nil && next.TagName == "P" && br.ParentNode != nil {
			br.ParentNode.removeChild(br)
		}
	}

	// Remove single-cell tables
	for _, table := range getAllNodesWithTag(articleContent, "table") {
		tbody := table
		if hasSingleTagInsideElement(table, "TBODY") {
			tbody = table.firstElementChild()
		}
		if hasSingleTagInsideElement(tbody, "TR") {
			row := tbody.firstElementChild()
			if hasSingleTagInsideElement(row, "TD") {
				cell := row.firstElementChild()
				allPhrasing := true
				for _, child := range cell.ChildNodes {
					if !isPhrasingContent(child) {
						allPhrasing = false
						break
					}
				}
				if allPhrasing {
					cell = r.setNodeTag(cell, "P")
				} else {
					cell = r.setNodeTag(cell, "DIV")
				}
				if table.ParentNode != nil {
					table.ParentNode.replaceChild(cell, table)
				}
			}
		}
	}

	// Boilerplate links that survived the earlier passes.
	removeNodes(articleContent.getElementsByTagName("a"), func(link *Node) bool {
		text := link.getTextContent()
		return (redundantText.MatchString(text) && len(text) <= 30) ||
			strings.Contains(link.getClassName(), "tw-text-substack-secondary")
	})
}

// hasRedundantImage detects leftover "+N more photos" style counters.
func hasRedundantImage(node *Node) bool {
	return len(node.getElementsByTagName("img")) == 1 &&
		redundantCounter.MatchString(strings.TrimSpace(getInnerText(node, false)))
}

// cleanStyles removes the style attribute on every element and
// descendants.
func (r *Readability) cleanStyles(e *Node) {
	if e == nil || e.LocalName == "svg" {
		return
	}

	// Remove `style` and deprecated presentational attributes
	for _, attrName := range presentationalAttributes {
		e.removeAttribute(attrName)
	}

	if slices.Contains(deprecatedSizeAttributeElems, e.TagName) {
		e.removeAttribute("width")
		e.removeAttribute("height")
	}

	for _, cur := range e.Children {
		r.cleanStyles(cur)
	}
}

// markDataTables decides for every table whether it holds data, as
// opposed to being used for layout.
func markDataTables(root *Node) {
	no := false
	yes := true

	for _, table := range root.getElementsByTagName("table") {
		if table.getAttribute("role") == "presentation" {
			table.dataTable = &no
			continue
		}
		if table.getAttribute("datatable") == "0" {
			table.dataTable = &no
			continue
		}
		if table.hasAttribute("summary") {
			table.dataTable = &yes
			continue
		}

		if captions := table.getElementsByTagName("caption"); len(captions) > 0 && len(captions[0].ChildNodes) > 0 {
			table.dataTable = &yes
			continue
		}

		// If the table has a descendant with any of these tags, consider
		// a data table:
		hasDataTableDescendant := false
		for _, tag := range []string{"col", "colgroup", "tfoot", "thead", "th"} {
			if len(table.getElementsByTagName(tag)) > 0 {
				hasDataTableDescendant = true
				break
			}
		}
		if hasDataTableDescendant {
			table.dataTable = &yes
			continue
		}

		// Nested tables indicate a layout table:
		if len(table.getElementsByTagName("table")) > 0 {
			table.dataTable = &no
			continue
		}

		rows, columns := getRowAndColumnCount(table)
		if rows >= 10 || columns > 4 {
			table.dataTable = &yes
			continue
		}

		// Now just go by size entirely:
		isData := rows*columns > 10
		table.dataTable = &isData
	}
}

func isDataTable(t *Node) bool {
	return t.dataTable != nil && *t.dataTable
}

func getRowAndColumnCount(table *Node) (int, int) {
	rows := 0
	columns := 0
	for _, tr := range table.getElementsByTagName("tr") {
		rowspan, _ := strconv.Atoi(tr.getAttribute("rowspan"))
		rows += max(rowspan, 1)

		// Now look for column-related info
		columnsInThisRow := 0
		for _, cell := range tr.getElementsByTagName("td") {
			colspan, _ := strconv.Atoi(cell.getAttribute("colspan"))
			columnsInThisRow += max(colspan, 1)
		}
		columns = max(columns, columnsInThisRow)
	}
	return rows, columns
}

// fixLazyImages converts images and figures that have properties like
// data-src into images that can be loaded without JS, and removes tiny
// tracking pixels.
func fixLazyImages(root *Node) {
	for _, elem := range getAllNodesWithTag(root, "img", "picture", "figure", "svg") {
		// Tracking pixels and decorative squares.
		width := elem.getAttribute("width")
		height := elem.getAttribute("height")
		if width != "" && width == height {
			if size, err := strconv.Atoi(width); err == nil {
				if (elem.LocalName == "svg" && size <= 21) || (elem.TagName == "IMG" && size <= 80) {
					if elem.ParentNode != nil {
						elem.ParentNode.removeChild(elem)
					}
					continue
				}
			}
		}

		if elem.getSrc() == "" && elem.getAttribute("data-src") != "" {
			elem.setAttribute("src", elem.getAttribute("data-src"))
		}
		if elem.getAttribute("data-lazy-src") != "" {
			elem.setAttribute("src", elem.getAttribute("data-lazy-src"))
		}

		// In some sites (e.g. Kotaku), they put 1px square image as base64
		// data uri in the src attribute. So, here we check if the data uri
		// is too short, just might as well remove it.
		if src := elem.getSrc(); src != "" && b64DataUrl.MatchString(src) {
			// Make sure it's not SVG, because SVG can have a meaningful
			// image in under 133 bytes.
			parts := b64DataUrl.FindStringSubmatch(src)
			if parts[1] == "image/svg+xml" {
				continue
			}

			// Make sure this element has other attributes which contain
			// image. If it doesn't, then this src is important and
			// shouldn't be removed.
			srcCouldBeRemoved := false
			for _, attr := range elem.Attributes {
				if attr.name == "src" {
					continue
				}
				if imgExtensions.MatchString(attr.value) {
					srcCouldBeRemoved = true
					break
				}
			}

			// Here we assume if image is less than 100 bytes (or 133
			// after encoded to base64) it will be too small, therefore
			// it might be a placeholder image.
			if srcCouldBeRemoved {
				if loc := base64Starts.FindStringIndex(src); loc != nil {
					b64length := len(src) - (loc[0] + 7)
					if b64length < 133 {
						elem.removeAttribute("src")
					}
				}
			}
		}

		if (elem.getSrc() != "" || (elem.getSrcset() != "" && elem.getSrcset() != "null")) &&
			!strings.Contains(strings.ToLower(elem.getClassName()), "lazy") {
			// Left-over placeholders with a loading class render as
			// broken images.
			if lazyLoadingElems.MatchString(elem.getClassName()) && elem.ParentNode != nil {
				elem.ParentNode.removeChild(elem)
			}
			continue
		}

		for _, attr := range elem.Attributes {
			switch attr.name {
			case "src", "srcset", "alt":
				continue
			}
			copyTo := ""
			if imgExtensionsWithSpacesAndNum.MatchString(attr.value) {
				copyTo = "srcset"
			} else if imgExtensionsAmongText.MatchString(attr.value) {
				copyTo = "src"
			}
			if copyTo == "" {
				continue
			}

			if elem.TagName == "IMG" || elem.TagName == "PICTURE" {
				// if this is an img or picture, set the attribute directly
				elem.setAttribute(copyTo, attr.value)
			} else if elem.TagName == "FIGURE" && len(getAllNodesWithTag(elem, "img", "picture")) == 0 {
				// if the item is a <figure> that does not contain an
				// image or picture, create one and place it inside the
				// figure. See the nytimes-3 testcase for an example of
				// this.
				img := newElement("img")
				img.setAttribute(copyTo, attr.value)
				elem.appendChild(img)
			}
		}
	}
}

// getTextDensity measures how much of the text of e sits inside
// descendants with the given tags.
func getTextDensity(e *Node, tags ...string) float64 {
	textLength := len(getInnerText(e, true))
	if textLength == 0 {
		return 0
	}
	childrenLength := 0
	for _, child := range getAllNodesWithTag(e, tags...) {
		childrenLength += len(getInnerText(child, true))
	}
	return float64(childrenLength) / float64(textLength)
}

// isProbablyNavigation spots previous/next link lists that pose as
// content.
func isProbablyNavigation(node *Node) bool {
	if node.TagName != "OL" && node.TagName != "UL" {
		return false
	}
	for _, li := range node.getElementsByTagName("li") {
		if navigationText.MatchString(li.getClassName()) && len(li.getElementsByTagName("a")) > 0 {
			return true
		}
	}
	return false
}

// cleanConditionally cleans an element of all tags of type "tag" if they
// look fishy. "Fishy" is an algorithm based on content length, class
// names, link density, number of images and embeds, etc.
func (r *Readability) cleanConditionally(e *Node, tag string) {
	if !r.flagIsActive(flagCleanConditionally) {
		return
	}

	// Gather counts for other typical elements embedded within. Traverse
	// backwards so we can remove nodes at the same time without effecting
	// the traversal.
	removeNodes(getAllNodesWithTag(e, tag), func(node *Node) bool {
		if slices.Contains(placeholderClasses, node.getClassName()) {
			return false
		}

		isList := tag == "ul" || tag == "ol"
		if !isList {
			listLength := 0
			for _, list := range getAllNodesWithTag(node, "ul", "ol") {
				listLength += len(getInnerText(list, true))
			}
			if total := len(getInnerText(node, true)); total > 0 {
				isList = float64(listLength)/float64(total) > 0.9
			}
		}

		if (tag == "ul" || tag == "ol") && isProbablyNavigation(node) {
			r.log.Debug().Msg("removing navigation list")
			return true
		}

		if tag == "table" && isDataTable(node) {
			return false
		}

		// Next check if we're inside a data table, in which case don't
		// remove it as well.
		if hasAncestorTag(node, "table", -1, isDataTable) {
			return false
		}

		if hasAncestorTag(node, "code", 0, nil) {
			return false
		}

		// Keep figures holding just a picture.
		if len(node.Children) == 1 && node.Children[0].TagName == "PICTURE" {
			return false
		}

		weight := r.getClassWeight(node)
		r.log.Debug().Str("node", node.getNodeName()).Float64("weight", weight).Msg("cleaning conditionally")

		if weight < 0 {
			return true
		}

		if getCharCount(node, ",") >= 10 {
			return false
		}

		// If there are not very many commas, and the number of
		// non-paragraph elements is more than paragraphs or other
		// ominous signs, remove the element.
		p := len(node.getElementsByTagName("p"))
		img := len(node.getElementsByTagName("img"))
		li := len(node.getElementsByTagName("li")) - 100
		input := len(node.getElementsByTagName("input"))
		headingDensity := getTextDensity(node, "h1", "h2", "h3", "h4", "h5", "h6")

		embedCount := 0
		for _, embed := range getAllNodesWithTag(node, "object", "embed", "iframe") {
			for _, attr := range embed.Attributes {
				if r.options.allowedVideoRegex.MatchString(attr.value) {
					return false
				}
			}
			// For embed with <object> tag, check inner HTML as well.
			if embed.TagName == "OBJECT" && r.options.allowedVideoRegex.MatchString(embed.getInnerHTML()) {
				return false
			}
			embedCount++
		}

		if r.hasTweetInChildren(node) {
			return false
		}
		if r.isEmbed(node) || r.hasEmbed(node) {
			return false
		}

		linkDensity := r.getLinkDensity(node)
		contentLength := len(getInnerText(node, true))

		parentClassesToSkip := false
		for walk := node.ParentNode; walk != nil; walk = walk.ParentNode {
			if slices.Contains(classesToSkip, walk.getClassName()) {
				parentClassesToSkip = true
				break
			}
		}

		haveToRemove := !isMarkedNode(node) &&
			((img > 1 && float64(p)/float64(img) < 0.5 && !hasAncestorTag(node, "figure", 0, nil)) ||
				(!isList && li > p) ||
				(input > int(math.Floor(float64(p)/3))) ||
				(!isList && headingDensity < 0.9 && contentLength < 25 &&
					!emojiChars.MatchString(node.getTextContent()) &&
					(img == 0 || img > 2) && !hasAncestorTag(node, "figure", 0, nil)) ||
				(!isList && weight < 25 && linkDensity > 0.2 && !parentClassesToSkip) ||
				(weight >= 25 && linkDensity > 0.5 && !(node.getClassName() == "tweet" && linkDensity == 1)) ||
				(embedCount == 1 && contentLength < 75) || embedCount > 1)

		// Allow simple lists of images to remain in pages
		if isList && haveToRemove {
			for _, child := range node.Children {
				// Don't filter in lists with li's that contain more than
				// one child
				if len(child.Children) > 1 {
					return haveToRemove
				}
			}
			// Only allow the list to remain if every li contains an image
			if img == len(node.getElementsByTagName("li")) {
				return false
			}
		}

		return haveToRemove
	})
}

// clean cleans a node of all elements of type "tag". (Unless it's a
// youtube/vimeo video. People love movies.)
func (r *Readability) clean(e *Node, tag string) {
	isEmbedTag := tag == "object" || tag == "embed" || tag == "iframe"

	removeNodes(getAllNodesWithTag(e, tag), func(element *Node) bool {
		// Allow youtube and vimeo videos through as people usually want
		// to see those.
		if isEmbedTag {
			// First, check the elements attributes to see if any of them
			// contain youtube or vimeo
			for _, attr := range element.Attributes {
				if r.options.allowedVideoRegex.MatchString(attr.value) {
					return false
				}
			}
			// For embed with <object> tag, check inner HTML as well.
			if element.TagName == "OBJECT" && r.options.allowedVideoRegex.MatchString(element.getInnerHTML()) {
				return false
			}
		}

		// Pull quotes out of the wrappers some platforms bury them in.
		if hasSingleTagInsideElement(element, "BLOCKQUOTE") {
			if element.ParentNode != nil {
				element.ParentNode.replaceChild(element.firstElementChild(), element)
			}
			return false
		}

		return true
	})
}

// cleanMatchedNodes cleans out elements whose id/class combinations match
// specific string.
func (r *Readability) cleanMatchedNodes(e *Node, filter func(node *Node, matchString string) bool) {
	endOfSearchMarkerNode := getNextNode(e, true)
	next := getNextNode(e, false)
	for next != nil && next != endOfSearchMarkerNode {
		if filter(next, next.getClassName()+" "+next.getId()) {
			next = r.removeAndGetNext(next)
		} else {
			next = getNextNode(next, false)
		}
	}
}

// cleanHeaders removes the first heading that either repeats the article
// title or advertises itself as boilerplate through its class weight.
func (r *Readability) cleanHeaders(e *Node) {
	for _, node := range getAllNodesWithTag(e, "h1", "h2", "h3") {
		duplicatesTitle := textSimilarity(r.articleTitle, getInnerText(node, false)) > 0.75
		lowWeight := (node.TagName == "H1" || node.TagName == "H2") && r.getClassWeight(node) < 0
		if duplicatesTitle || lowWeight {
			if node.ParentNode != nil {
				node.ParentNode.removeChild(node)
			}
			return
		}
	}
}
