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
	"sort"
	"strings"
	"time"
)

// initializeNode readies a node for scoring. Its content score starts from
// the kind of tag it carries, adjusted by its class or id weight.
func (r *Readability) initializeNode(node *Node) {
	score := 0.0
	switch node.TagName {
	case "DIV":
		score += 5
	case "PRE", "TD", "BLOCKQUOTE":
		score += 3
	case "ADDRESS", "OL", "UL", "DL", "DD", "DT", "LI", "FORM":
		score -= 3
	case "H1", "H2", "H3", "H4", "H5", "H6", "TH":
		score -= 5
	}
	score += r.getClassWeight(node)
	node.score = &nodeScore{total: score}
}

func isValidByline(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) > 0 && len(text) < 100
}

func (r *Readability) checkByline(node *Node, matchString string) bool {
	if r.articleByline != "" {
		return false
	}

	rel := node.getAttribute("rel")
	itemprop := node.getAttribute("itemprop")

	if (rel == "author" || strings.Contains(itemprop, "author") || byline.MatchString(matchString)) &&
		isValidByline(node.getTextContent()) {
		// Prefer the name sub-element over the full text, which often
		// carries the date too.
		bylineText := node.getTextContent()
		names := node.findAll(func(n *Node) bool {
			return n.TagName == "SPAN" && n.getAttribute("itemprop") == "name"
		})
		if len(names) > 0 {
			bylineText = names[0].getTextContent()
		}
		r.articleByline = strings.TrimSpace(bylineText)
		return true
	}
	return false
}

func isValidPublishedDate(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) > 0 && len(text) < 50
}

// findDateInText looks for a recognizable date inside arbitrary text.
func findDateInText(content string) *time.Time {
	for _, re := range numericDates {
		if m := re.FindString(content); m != "" {
			if d := parseAnyDate(m); d != nil {
				return d
			}
		}
	}
	if m := longDate.FindString(content); m != "" {
		if d := parseAnyDate(ordinalSuffix.ReplaceAllString(m, "$1")); d != nil {
			return d
		}
	}
	if m := chineseDateFull.FindString(content); m != "" {
		m = strings.ReplaceAll(m, "年", "-")
		m = strings.ReplaceAll(m, "月", "-")
		m = strings.ReplaceAll(m, "日", "")
		if d := parseAnyDate(m); d != nil {
			return d
		}
	}
	return nil
}

// checkPublishedDate reports whether the node looks like it holds the
// publication date of the article, capturing the date along the way.
func (r *Readability) checkPublishedDate(node *Node, matchString string) bool {
	// Meta tags were already mined for dates.
	if node.TagName == "META" {
		return false
	}

	if node.getClassName() == "omnivore-published-date" && isValidPublishedDate(node.getTextContent()) {
		if d := parseAnyDate(strings.TrimSpace(node.getTextContent())); d != nil {
			r.articlePublishedDate = d
			return true
		}
	}

	// Anchor text mentioning a date usually links an archive page.
	if node.TagName == "A" {
		return false
	}

	if node.TagName == "TIME" {
		if datetime := node.getAttribute("datetime"); datetime != "" {
			if d := parseAnyDate(datetime); d != nil {
				r.articlePublishedDate = d
				return true
			}
		}
	}

	content := strings.TrimSpace(node.getTextContent())
	dateFound := findDateInText(content)
	contentDate := parseAnyDate(content)

	keywordInAttributes := false
	for _, attr := range node.Attributes {
		// URLs routinely embed words like "updated" without being dates.
		name := strings.ToLower(attr.name)
		if strings.Contains(name, "href") || strings.Contains(name, "uri") || strings.Contains(name, "url") {
			continue
		}
		if publishedDateKeyword.MatchString(attr.value) {
			keywordInAttributes = true
			break
		}
	}

	if (keywordInAttributes || dateFound != nil || (dateToken.MatchString(matchString) && contentDate != nil)) &&
		isValidPublishedDate(content) {
		if r.articlePublishedDate == nil {
			switch {
			case dateFound != nil:
				r.articlePublishedDate = dateFound
			case contentDate != nil:
				r.articlePublishedDate = contentDate
			default:
				return false
			}
		}
		return true
	}
	return false
}

// headerDuplicatesTitle checks if this node is an H1 or H2 whose content
// is mostly the same as the article title.
func (r *Readability) headerDuplicatesTitle(node *Node) bool {
	if node.TagName != "H1" && node.TagName != "H2" {
		return false
	}
	heading := getInnerText(node, false)
	r.log.Debug().Str("heading", heading).Str("title", r.articleTitle).Msg("evaluating similarity of heading")

	if textSimilarity(r.articleTitle, heading) > 0.75 {
		// The heading is the better title when the page title wraps it, or
		// when the markup flags it as the headline.
		preferHeading := strings.Contains(r.articleTitle, heading)
		if !preferHeading {
			for _, attr := range node.Attributes {
				if attr.value == "headline" {
					preferHeading = true
					break
				}
			}
		}
		if preferHeading {
			r.articleTitle = heading
		}
		return true
	}
	return false
}

// grabArticle uses a variety of metrics (content score, classname,
// element types) to find the content that is most likely to be the stuff
// a user wants to read. Then it grabs that content and constructs a new
// element containing it.
func (r *Readability) grabArticle(ctx context.Context) *Node {
	r.log.Debug().Msg("grabbing article")

	doc := r.doc
	page := doc.Body
	// We can't grab an article if we don't have a page!
	if page == nil {
		r.log.Debug().Msg("no body found in document, abort")
		return nil
	}

	pageCacheHtml := page.getInnerHTML()

	for {
		stripUnlikelyCandidates := r.flagIsActive(flagStripUnlikelys)

		// First, node prepping. Trash nodes that look cruddy (like ones
		// with the class name "comment", etc), and turn divs into P tags
		// where they have been used inappropriately (as in, where they
		// contain no other block level elements).
		var elementsToScore []*Node
		shouldRemoveTitleHeader := true

		var firstH1 *Node
		if h1s := doc.getElementsByTagName("h1"); len(h1s) > 0 {
			firstH1 = h1s[0]
		}

		node := doc.DocumentElement
		for node != nil {
			// Nodes injected by the reader pipeline itself are kept as-is.
			if isMarkedNode(node) {
				node = getNextNode(node, true)
				continue
			}

			matchString := node.getClassName() + " " + node.getId()

			if !isProbablyVisible(node) {
				r.log.Debug().Str("node", node.getNodeName()).Msg("removing hidden node")
				node = r.removeAndGetNext(node)
				continue
			}

			// User is not able to see elements applied with both
			// "aria-modal = true" and "role = dialog"
			if node.getAttribute("aria-modal") == "true" && node.getAttribute("role") == "dialog" {
				node = r.removeAndGetNext(node)
				continue
			}

			// Check to see if this node is a byline; if it is, remove it.
			if r.checkByline(node, matchString) {
				node = r.removeAndGetNext(node)
				continue
			}

			if r.checkPublishedDate(node, matchString) {
				node = r.removeAndGetNext(node)
				continue
			}

			// Remove the first duplicate of the title heading.
			if shouldRemoveTitleHeader && r.headerDuplicatesTitle(node) {
				r.log.Debug().Str("heading", getInnerText(node, false)).Msg("removing header duplicating the title")
				shouldRemoveTitleHeader = false
				node = r.removeAndGetNext(node)
				continue
			}

			// Remove unlikely candidates
			if stripUnlikelyCandidates {
				if (unlikelyCandidates.MatchString(matchString) ||
					unlikelyCandidates.MatchString(node.getAttribute("data-testid")) ||
					unlikelyCandidates.MatchString(node.getAttribute("aria-labelledby"))) &&
					!(okMaybeItsACandidate.MatchString(matchString) && !notACandidateAfterAll.MatchString(matchString)) &&
					!tweetClass.MatchString(node.getClassName()) &&
					!instagramClass.MatchString(node.getClassName()) &&
					!r.isEmbed(node) &&
					!hasAncestorTag(node, "table", -1, nil) &&
					!hasAncestorTag(node, "code", -1, nil) &&
					!hasAncestorTag(node, "blockquote", 1, nil) &&
					len(node.getElementsByTagName("article")) != 1 &&
					node.TagName != "BODY" &&
					node.TagName != "A" {
					r.log.Debug().Str("match", matchString).Msg("removing unlikely candidate")
					node = r.removeAndGetNext(node)
					continue
				}

				if slices.Contains(unlikelyRoles, node.getAttribute("role")) {
					r.log.Debug().Str("role", node.getAttribute("role")).Msg("removing content with unlikely role")
					node = r.removeAndGetNext(node)
					continue
				}
			}

			// Keep embeds and their wrappers untouched, but still walk
			// into them.
			if slices.Contains(embedsClasses, node.getClassName()) || r.isEmbed(node) || r.hasEmbed(node) {
				node = getNextNode(node, false)
				continue
			}

			// Remove DIV, SECTION, and HEADER nodes without any content
			// (e.g. text, image, video, or iframe).
			switch node.TagName {
			case "DIV", "SECTION", "HEADER", "H1", "H2", "H3", "H4", "H5", "H6":
				if isElementWithoutContent(node) {
					node = r.removeAndGetNext(node)
					continue
				}
			}

			// A link-heavy block right above the headline is navigation.
			if firstH1 != nil && node.NextElementSibling != nil &&
				node.NextElementSibling.getInnerHTML() == firstH1.getInnerHTML() &&
				r.getLinkDensity(node) > 0.5 {
				node = r.removeAndGetNext(node)
				continue
			}

			if slices.Contains(defaultTagsToScore, node.TagName) {
				elementsToScore = append(elementsToScore, node)
			}

			// Turn all divs that don't have children block level elements
			// into p's
			if node.TagName == "DIV" {
				// Put phrasing content into paragraphs.
				var p *Node
				childNode := node.firstChild()
				for childNode != nil {
					nextSibling := childNode.NextSibling
					if isPhrasingContent(childNode) {
						if p != nil {
							p.appendChild(childNode)
						} else if !isWhitespaceNode(childNode) {
							p = newElement("p")
							node.replaceChild(p, childNode)
							p.appendChild(childNode)
						}
					} else if p != nil {
						for p.lastChild() != nil && isWhitespaceNode(p.lastChild()) {
							p.removeChild(p.lastChild())
						}
						p = nil
					}
					childNode = nextSibling
				}

				// Sites like http://mobile.slate.com encloses each
				// paragraph with a DIV element. DIVs with only a P element
				// inside and no text content can be safely converted into
				// plain P elements to avoid confusing the scoring
				// algorithm with DIVs with are, in practice, paragraphs.
				if hasSingleTagInsideElement(node, "P") && r.getLinkDensity(node) < 0.25 {
					newNode := node.Children[0]
					node.ParentNode.replaceChild(newNode, node)
					node = newNode
					elementsToScore = append(elementsToScore, node)
				} else if !hasChildBlockElement(node) {
					node = r.setNodeTag(node, "P")
					elementsToScore = append(elementsToScore, node)
				}
			}
			node = getNextNode(node, false)
		}

		// Loop through all paragraphs, and assign a score to them based
		// on how content-y they look. Then add their score to their parent
		// node. A score is determined by things like number of commas,
		// class names, etc. Maybe eventually link density.
		var candidates []*Node
		for _, elementToScore := range elementsToScore {
			if elementToScore.ParentNode == nil || elementToScore.ParentNode.TagName == "" {
				continue
			}

			// If this paragraph is less than 25 characters, don't even
			// count it.
			innerText := getInnerText(elementToScore, true)
			if len(innerText) < 25 {
				continue
			}

			// Exclude nodes with no ancestor.
			ancestors := getNodeAncestors(elementToScore, 5)
			if len(ancestors) == 0 {
				continue
			}

			contentScore := 0.0

			// Add a point for the paragraph itself as a base.
			contentScore++

			// Add points for any commas within this paragraph.
			contentScore += float64(len(commas.Split(innerText, -1)))

			// For every 100 characters in this paragraph, add another
			// point. Up to 3 points.
			contentScore += math.Min(math.Floor(float64(len(innerText))/100), 3)

			// Initialize and score ancestors.
			for level, ancestor := range ancestors {
				if ancestor.TagName == "" || ancestor.ParentNode == nil || ancestor.ParentNode.TagName == "" {
					continue
				}
				if ancestor.score == nil {
					r.initializeNode(ancestor)
					candidates = append(candidates, ancestor)
				}

				// Node score divider:
				// - parent:             1 (no division)
				// - grandparent:        2
				// - great grandparent+: ancestor level * 3
				var scoreDivider float64
				switch level {
				case 0:
					scoreDivider = 1
				case 1:
					scoreDivider = 2
				default:
					scoreDivider = float64(level) * 3
				}
				ancestor.score.total += contentScore / scoreDivider
			}
		}

		// After we've calculated scores, loop through all of the possible
		// candidate nodes we found and find the one with the highest
		// score.
		var topCandidates []*Node
		for _, candidate := range candidates {
			// Scale the final candidates score based on link density.
			// Good content should have a relatively small link density
			// (5% or less) and be mostly unaffected by this operation.
			candidateScore := candidate.score.total * (1 - r.getLinkDensity(candidate))
			candidate.score.total = candidateScore
			r.log.Debug().Str("node", candidate.getNodeName()).Float64("score", candidateScore).Msg("candidate")

			for t := 0; t < r.options.nbTopCandidates; t++ {
				if t >= len(topCandidates) || candidateScore > topCandidates[t].score.total {
					topCandidates = insert(candidate, t, topCandidates)
					if len(topCandidates) > r.options.nbTopCandidates {
						topCandidates = topCandidates[:r.options.nbTopCandidates]
					}
					break
				}
			}
		}

		var topCandidate, parentOfTopCandidate *Node
		if len(topCandidates) > 0 {
			topCandidate = topCandidates[0]
		}
		neededToCreateTopCandidate := false

		// If we still have no top candidate, just use the body as a last
		// resort. We also have to copy the body node so it is something
		// we can modify.
		if topCandidate == nil || topCandidate.TagName == "BODY" {
			// Move all of the page's children into topCandidate
			topCandidate = newElement("div")
			neededToCreateTopCandidate = true
			for page.firstChild() != nil {
				topCandidate.appendChild(page.firstChild())
			}
			page.appendChild(topCandidate)
			r.initializeNode(topCandidate)
		} else {
			// Find a better top candidate node if it contains (at least
			// three) nodes which belong to `topCandidates` array and
			// whose scores are quite closed with current `topCandidate`
			// node.
			var alternativeCandidateAncestors [][]*Node
			for i := 1; i < len(topCandidates); i++ {
				if topCandidates[i].score.total/topCandidate.score.total >= 0.75 {
					alternativeCandidateAncestors = append(alternativeCandidateAncestors, getNodeAncestors(topCandidates[i], 0))
				}
			}
			const minimumTopCandidates = 3
			if len(alternativeCandidateAncestors) >= minimumTopCandidates {
				parentOfTopCandidate = topCandidate.ParentNode
				for parentOfTopCandidate != nil && parentOfTopCandidate.TagName != "BODY" {
					listsContainingThisAncestor := 0
					for i := 0; i < len(alternativeCandidateAncestors) && listsContainingThisAncestor < minimumTopCandidates; i++ {
						if slices.Contains(alternativeCandidateAncestors[i], parentOfTopCandidate) {
							listsContainingThisAncestor++
						}
					}
					if listsContainingThisAncestor >= minimumTopCandidates {
						topCandidate = parentOfTopCandidate
						break
					}
					parentOfTopCandidate = parentOfTopCandidate.ParentNode
				}
			}
			if topCandidate.score == nil {
				r.initializeNode(topCandidate)
			}

			// Because of our bonus system, parents of candidates might
			// have scores themselves. They get half of the node. There
			// won't be nodes with higher scores than our topCandidate,
			// but if we see the score going *up* in the first few steps
			// up the tree, that's a decent sign that there might be more
			// content lurking in other places that we want to unify in.
			// The sibling stuff below does some of that - but only if
			// we've looked high enough up the DOM tree.
			parentOfTopCandidate = topCandidate.ParentNode
			lastScore := topCandidate.score.total
			// The scores shouldn't get too low.
			scoreThreshold := lastScore / 3
			for parentOfTopCandidate != nil && parentOfTopCandidate.TagName != "BODY" {
				// Climbing past a navigation bar means leaving the
				// article.
				hasNavSibling := false
				if parentOfTopCandidate.ParentNode != nil {
					for _, sibling := range parentOfTopCandidate.ParentNode.Children {
						if sibling.TagName == "NAV" {
							hasNavSibling = true
							break
						}
					}
				}
				if hasNavSibling {
					break
				}
				if parentOfTopCandidate.score == nil {
					parentOfTopCandidate = parentOfTopCandidate.ParentNode
					continue
				}
				parentScore := parentOfTopCandidate.score.total
				if parentScore < scoreThreshold {
					break
				}
				if parentScore > lastScore {
					// Alright! We found a better parent to use.
					topCandidate = parentOfTopCandidate
					break
				}
				lastScore = parentOfTopCandidate.score.total
				parentOfTopCandidate = parentOfTopCandidate.ParentNode
			}

			// If the top candidate is the only child, use parent instead.
			// This will help sibling joining logic when adjacent content
			// is actually located in parent's sibling node.
			parentOfTopCandidate = topCandidate.ParentNode
			for parentOfTopCandidate != nil && parentOfTopCandidate.TagName != "BODY" && len(parentOfTopCandidate.Children) == 1 {
				topCandidate = parentOfTopCandidate
				parentOfTopCandidate = topCandidate.ParentNode
			}
			if topCandidate.score == nil {
				r.initializeNode(topCandidate)
			}

			// Headers and surrounding figures often sit just outside the
			// candidate, widen the selection by one level.
			parentOfTopCandidate = topCandidate.ParentNode
			if parentOfTopCandidate != nil && parentOfTopCandidate.TagName != "BODY" {
				topCandidate = parentOfTopCandidate
				if topCandidate.score == nil {
					r.initializeNode(topCandidate)
				}
			}
		}

		// Now that we have the top candidate, look through its siblings
		// for content that might also be related. Things like preambles,
		// content split by ads that we removed, etc.
		articleContent := newElement("div")

		siblingScoreThreshold := math.Max(10, topCandidate.score.total*0.2)
		// Keep potential top candidate's parent node to try to get text
		// direction of it later.
		parentOfTopCandidate = topCandidate.ParentNode
		if parentOfTopCandidate == nil {
			parentOfTopCandidate = topCandidate
		}
		siblings := slices.Clone(parentOfTopCandidate.Children)

		for _, sibling := range siblings {
			appendNode := false

			r.log.Debug().Str("sibling", sibling.getNodeName()).Msg("looking at sibling")

			if sibling == topCandidate {
				appendNode = true
			} else {
				contentBonus := 0.0

				// Give a bonus if sibling nodes and top candidates have
				// the example same classname
				if sibling.getClassName() == topCandidate.getClassName() && topCandidate.getClassName() != "" {
					contentBonus += topCandidate.score.total * 0.2
				}

				if sibling.score != nil && sibling.score.total+contentBonus >= siblingScoreThreshold {
					appendNode = true
				} else if sibling.TagName == "P" {
					linkDensity := r.getLinkDensity(sibling)
					nodeContent := getInnerText(sibling, true)
					nodeLength := len(nodeContent)

					if nodeLength > 80 && linkDensity < 0.25 {
						appendNode = true
					} else if nodeLength < 80 && nodeLength > 0 && linkDensity == 0 &&
						dotSpaceOrEnd.MatchString(nodeContent) {
						appendNode = true
					}
				}
			}

			if appendNode {
				r.log.Debug().Str("sibling", sibling.getNodeName()).Msg("appending sibling")

				if !slices.Contains(alterToDivExceptions, sibling.TagName) {
					// We have a node that isn't a common block level
					// element, like a form or td tag. Turn it into a div
					// so it doesn't get filtered out later by accident.
					sibling = r.setNodeTag(sibling, "DIV")
				}
				articleContent.appendChild(sibling)
			}
		}

		// So we have all of the content that we need. Now we clean it up
		// for presentation.
		r.prepArticle(ctx, articleContent)

		// Hero images often live in the page header, next to the title.
		for _, header := range getAllNodesWithTag(doc.DocumentElement, "header") {
			if header.score == nil {
				continue
			}
			figures := header.getElementsByTagName("figure")
			for i := len(figures) - 1; i >= 0; i-- {
				fig := figures[i]
				contained := false
				for walk := fig; walk != nil; walk = walk.ParentNode {
					if walk == articleContent {
						contained = true
						break
					}
				}
				if !contained {
					articleContent.prependChild(fig)
				}
			}
		}

		if neededToCreateTopCandidate {
			// We already created a fake div thing, and there wouldn't
			// have been any siblings left for the previous loop, so
			// there's no point trying to create a new div, and then
			// move all the children over. Just assign IDs and class
			// names here. No need to append because that already
			// happened anyway.
			topCandidate.setAttribute("id", "readability-page-1")
			topCandidate.setClassName("page")
		} else {
			div := newElement("div")
			div.setAttribute("id", "readability-page-1")
			div.setClassName("page")
			for articleContent.firstChild() != nil {
				div.appendChild(articleContent.firstChild())
			}
			articleContent.appendChild(div)
		}

		parseSuccessful := true

		// Now that we've gone through the full algorithm, check to see
		// if we got any meaningful content. If we didn't, we may need to
		// re-run grabArticle with different flags set. This gives us a
		// higher likelihood of finding the content, and the sieve
		// approach gives us a higher likelihood of finding the -right-
		// content.
		textLength := len(getInnerText(articleContent, true))
		if textLength < r.options.charThreshold {
			parseSuccessful = false
			page.setInnerHTML(pageCacheHtml)

			switch {
			case r.flagIsActive(flagStripUnlikelys):
				r.removeFlag(flagStripUnlikelys)
				r.attempts = append(r.attempts, attempt{articleContent, textLength})
			case r.flagIsActive(flagWeightClasses):
				r.removeFlag(flagWeightClasses)
				r.attempts = append(r.attempts, attempt{articleContent, textLength})
			case r.flagIsActive(flagCleanConditionally):
				r.removeFlag(flagCleanConditionally)
				r.attempts = append(r.attempts, attempt{articleContent, textLength})
			default:
				// No luck after removing flags, just return the longest
				// text we found during the different loops
				r.attempts = append(r.attempts, attempt{articleContent, textLength})
				sort.SliceStable(r.attempts, func(i, j int) bool {
					return r.attempts[i].textLength > r.attempts[j].textLength
				})

				// But first check if we actually have something
				if r.attempts[0].textLength == 0 {
					return nil
				}

				articleContent = r.attempts[0].articleContent
				parseSuccessful = true
			}
		}

		if parseSuccessful {
			// Find out text direction from ancestors of final top
			// candidate.
			ancestors := append([]*Node{parentOfTopCandidate, topCandidate}, getNodeAncestors(parentOfTopCandidate, 0)...)
			for _, ancestor := range ancestors {
				if ancestor == nil || ancestor.TagName == "" {
					continue
				}
				if dir := ancestor.getAttribute("dir"); dir != "" {
					r.articleDir = dir
					break
				}
			}
			return articleContent
		}
	}
}
