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

/*
 * This code is heavily based on Arc90's readability.js (1.7.1) script
 * available at: http://code.google.com/p/arc90labs-readability
 */

// Package readability extracts the primary readable content of an HTML
// document, along with its metadata, the way reader modes do.
package readability

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	flagStripUnlikelys     = 0x1
	flagWeightClasses      = 0x2
	flagCleanConditionally = 0x4
)

// Element tags to score by default.
var defaultTagsToScore = []string{"SECTION", "H2", "H3", "H4", "H5", "H6", "P", "TD", "PRE"}

// Article is the extraction result.
type Article struct {
	Title         string
	Byline        string
	Dir           string
	Content       string
	TextContent   string
	Length        int
	Excerpt       string
	SiteName      string
	SiteIcon      string
	PreviewImage  string
	PublishedDate *time.Time
	Language      string
	// DocumentElement is the extracted content subtree, for callers that
	// want to keep working on the DOM instead of the serialized form.
	DocumentElement *Node
}

// Readability holds the state of a single extraction run. It is not safe
// for concurrent use.
type Readability struct {
	doc     *Node
	options *Options
	log     zerolog.Logger

	baseURI     string
	documentURI string

	articleTitle         string
	articleByline        string
	articleDir           string
	articlePublishedDate *time.Time
	languageCode         string

	flags    int
	attempts []attempt
}

type attempt struct {
	articleContent *Node
	textLength     int
}

// New builds a parser for the given HTML source. The uri is used to
// resolve relative links.
func New(htmlSource, uri string, opts ...Option) (*Readability, error) {
	options := defaultOpts()
	for _, opt := range opts {
		opt(options)
	}

	doc, err := parseDocument(htmlSource, uri)
	if err != nil {
		return nil, fmt.Errorf("cannot parse html: %w", err)
	}

	return &Readability{
		doc:         doc,
		options:     options,
		log:         options.logger,
		baseURI:     doc.getBaseURI(),
		documentURI: uri,
		// Start with all flags set
		flags: flagStripUnlikelys | flagWeightClasses | flagCleanConditionally,
	}, nil
}

// Parse runs the extraction. It returns a nil Article, and no error, when
// the document does not yield enough readable content.
func (r *Readability) Parse(ctx context.Context) (*Article, error) {
	// Avoid parsing too large documents, as per configuration option
	if r.options.maxElemsToParse > 0 {
		numTags := len(r.doc.getElementsByTagName("*"))
		if numTags > r.options.maxElemsToParse {
			return nil, fmt.Errorf("aborting parsing document: %d elements found, limit is %d", numTags, r.options.maxElemsToParse)
		}
	}

	// Unwrap image from noscript
	r.unwrapNoscriptImages()

	// Extract JSON-LD metadata before removing scripts
	var jsonLd *metadata
	if !r.options.disableJSONLD {
		jsonLd = r.getJSONLD()
	}

	if r.doc.DocumentElement != nil {
		r.languageCode = r.doc.DocumentElement.getAttribute("lang")
	}

	// Remove script tags from the document.
	r.removeScripts()

	r.prepDocument(ctx)

	meta := r.getArticleMetadata(jsonLd)
	r.articleTitle = meta.title

	articleContent := r.grabArticle(ctx)
	if articleContent == nil {
		r.log.Debug().Msg("no article content found")
		return nil, nil
	}

	bylineText := anyOf(meta.byline, r.articleByline)
	author, publishedDateFromAuthor := extractPublishedDateFromAuthor(bylineText)
	publishedDate := firstDate(meta.publishedDate,
		extractPublishedDateFromURL(r.documentURI),
		publishedDateFromAuthor,
		r.articlePublishedDate)

	r.postProcessContent(articleContent)

	// If we haven't found an excerpt in the article's metadata, use the
	// article's first meaningful paragraph as the excerpt. This is used
	// for displaying a preview of the article's content.
	if meta.excerpt == "" {
		for _, p := range articleContent.getElementsByTagName("p") {
			text := strings.TrimSpace(p.getTextContent())
			if len(text) > 50 {
				meta.excerpt = text
				break
			}
		}
	}
	if meta.siteName == "" {
		// Fallback to hostname
		if base, err := url.Parse(r.baseURI); err == nil {
			meta.siteName = strings.TrimPrefix(base.Hostname(), "www.")
		}
	}

	textContent := articleContent.getTextContent()
	content := r.options.serializer(articleContent)
	if r.options.html2text != nil {
		textContent = r.options.html2text(content)
	}

	return &Article{
		Title:           r.articleTitle,
		Byline:          normalizeWhitespace(author),
		Dir:             r.articleDir,
		Content:         content,
		TextContent:     textContent,
		Length:          len(textContent),
		Excerpt:         meta.excerpt,
		SiteName:        meta.siteName,
		SiteIcon:        meta.siteIcon,
		PreviewImage:    meta.previewImage,
		PublishedDate:   publishedDate,
		Language:        r.getLanguage(ctx, content, meta.locale),
		DocumentElement: articleContent,
	}, nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstDate(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil {
			return d
		}
	}
	return nil
}

func (r *Readability) flagIsActive(flag int) bool {
	return r.flags&flag > 0
}

func (r *Readability) removeFlag(flag int) {
	r.flags = r.flags & ^flag
}

func (r *Readability) toAbsoluteURI(uri string) string {
	// Leave hash links alone if the base URI matches the document URI:
	if r.baseURI == r.documentURI && strings.HasPrefix(uri, "#") {
		return uri
	}

	// Otherwise, resolve against base URI:
	base, err := url.Parse(r.baseURI)
	if err != nil {
		return uri
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return base.ResolveReference(ref).String()
}

func getAllNodesWithTag(node *Node, tagNames ...string) []*Node {
	var all []*Node
	for _, tag := range tagNames {
		all = append(all, node.getElementsByTagName(tag)...)
	}
	return all
}

// removeNodes removes each node of the list for which filterFn returns
// true. A nil filterFn removes them all.
func removeNodes(nodes []*Node, filterFn func(n *Node) bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		if node.ParentNode == nil {
			continue
		}
		if filterFn == nil || filterFn(node) {
			node.ParentNode.removeChild(node)
		}
	}
}

func (r *Readability) replaceNodeTags(nodes []*Node, newTagName string) {
	for _, node := range nodes {
		r.setNodeTag(node, newTagName)
	}
}

func (r *Readability) setNodeTag(node *Node, tag string) *Node {
	node.LocalName = strings.ToLower(tag)
	node.TagName = strings.ToUpper(tag)
	return node
}

// getNextNode traverses the DOM depth-first, elements only. Pass true for
// ignoreSelfAndKids when the node itself (and its kids) are going away,
// and we want the next node over.
func getNextNode(node *Node, ignoreSelfAndKids bool) *Node {
	// First check for kids if those aren't being ignored
	if !ignoreSelfAndKids && node.firstElementChild() != nil {
		return node.firstElementChild()
	}
	// Then for siblings...
	if node.NextElementSibling != nil {
		return node.NextElementSibling
	}
	// And finally, move up the parent chain *and* find a sibling
	// (because this is depth-first traversal, we will have already
	// seen the parent nodes themselves).
	for {
		node = node.ParentNode
		if node == nil || node.NextElementSibling != nil {
			break
		}
	}
	if node == nil {
		return nil
	}
	return node.NextElementSibling
}

func (r *Readability) removeAndGetNext(node *Node) *Node {
	next := getNextNode(node, true)
	if node.ParentNode != nil {
		node.ParentNode.removeChild(node)
	}
	return next
}

func getNodeAncestors(node *Node, maxDepth int) []*Node {
	depth := 0
	var ancestors []*Node
	for node.ParentNode != nil {
		ancestors = append(ancestors, node.ParentNode)
		depth++
		if maxDepth > 0 && depth == maxDepth {
			break
		}
		node = node.ParentNode
	}
	return ancestors
}

// getInnerText returns the text of a node, with excess whitespace
// optionally normalized.
func getInnerText(e *Node, normalizeSpaces bool) string {
	text := strings.TrimSpace(e.getTextContent())
	if normalizeSpaces {
		return normalize.ReplaceAllString(text, " ")
	}
	return text
}

// getCharCount returns the number of times the separator appears in the
// text of the node.
func getCharCount(e *Node, s string) int {
	return strings.Count(getInnerText(e, true), s)
}

// textSimilarity compares the second text to the first one: 1 means same
// text, 0 completely different. Both texts are split into words, and the
// result weighs the share of words unique to the second text against the
// share it has in common with the first.
func textSimilarity(textA, textB string) float64 {
	const distanceWeight = 0.618

	tokensA := splitTokens(textA)
	tokensB := splitTokens(textB)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var uniqTokensB, similarTokensB []string
	for _, token := range tokensB {
		if slices.Contains(tokensA, token) {
			similarTokensB = append(similarTokensB, token)
		} else {
			uniqTokensB = append(uniqTokensB, token)
		}
	}

	distanceB := float64(len(strings.Join(uniqTokensB, " "))) / float64(len(strings.Join(tokensB, " ")))
	lengthDistance := float64(len(strings.Join(similarTokensB, " "))) / float64(len(strings.Join(tokensA, " ")))

	return distanceWeight*(1-distanceB) + lengthDistance*(1-distanceWeight)
}

func splitTokens(text string) []string {
	var tokens []string
	for _, t := range tokenize.Split(strings.ToLower(text), -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// getLinkDensity is the amount of text that is inside a link divided by
// the total text in the node.
func (r *Readability) getLinkDensity(element *Node) float64 {
	// Often disabled for newsletters, so every link density check passes.
	if r.options.ignoreLinkDensity {
		return 0
	}

	textLength := len(getInnerText(element, true))
	if textLength == 0 {
		return 0
	}

	linkLength := 0.0
	for _, linkNode := range element.getElementsByTagName("a") {
		// Links inside figure captions are mostly photo credits, they say
		// nothing about the quality of the surrounding text.
		if linkNode.ParentNode != nil && linkNode.ParentNode.TagName == "FIGCAPTION" {
			continue
		}
		coefficient := 1.0
		if href := linkNode.getHref(); href != "" && hashUrl.MatchString(href) {
			coefficient = 0.3
		}
		linkLength += float64(len(getInnerText(linkNode, true))) * coefficient
	}

	return linkLength / float64(textLength)
}

// getClassWeight scores an element on how content-y its class and id look.
func (r *Readability) getClassWeight(e *Node) float64 {
	if !r.flagIsActive(flagWeightClasses) {
		return 0
	}

	weight := 0.0

	if className := e.getClassName(); className != "" {
		if negative.MatchString(className) {
			weight -= 25
		}
		if positive.MatchString(className) {
			weight += 25
		}
	}

	if id := e.getId(); id != "" {
		if negative.MatchString(id) {
			weight -= 25
		}
		if positive.MatchString(id) {
			weight += 25
		}
	}

	return weight
}

// hasAncestorTag reports whether one of the node's ancestors, up to
// maxDepth levels (-1 for no limit, 0 for the default of 3), has the given
// tag name and passes the filter.
func hasAncestorTag(node *Node, tagName string, maxDepth int, filterFn func(*Node) bool) bool {
	if maxDepth == 0 {
		maxDepth = 3
	}
	tagName = strings.ToUpper(tagName)
	depth := 0
	for node.ParentNode != nil {
		if maxDepth > 0 && depth > maxDepth {
			return false
		}
		if node.ParentNode.TagName == tagName && (filterFn == nil || filterFn(node.ParentNode)) {
			return true
		}
		node = node.ParentNode
		depth++
	}
	return false
}

func hasSingleTagInsideElement(element *Node, tag string) bool {
	// There should be exactly 1 element child with given tag
	if len(element.Children) != 1 || element.Children[0].TagName != tag {
		return false
	}

	// And there should be no text nodes with real content
	for _, node := range element.ChildNodes {
		if node.NodeType == textNode && hasContent.MatchString(node.getTextContent()) {
			return false
		}
	}
	return true
}

func isElementWithoutContent(node *Node) bool {
	return node.NodeType == elementNode &&
		len(strings.TrimSpace(node.getTextContent())) == 0 &&
		(len(node.Children) == 0 ||
			len(node.Children) == len(node.getElementsByTagName("br"))+len(node.getElementsByTagName("hr")))
}

func hasChildBlockElement(element *Node) bool {
	for _, node := range element.ChildNodes {
		if divToPElems[node.TagName] || hasChildBlockElement(node) {
			return true
		}
	}
	return false
}

// isPhrasingContent determines if a node qualifies as phrasing content.
// https://developer.mozilla.org/en-US/docs/Web/Guide/HTML/Content_categories#Phrasing_content
func isPhrasingContent(node *Node) bool {
	if node.NodeType == textNode || slices.Contains(phrasingElems, node.TagName) {
		return true
	}
	if node.TagName == "A" || node.TagName == "DEL" || node.TagName == "INS" {
		all := true
		for _, child := range node.ChildNodes {
			if !isPhrasingContent(child) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	// a link followed by a text node is placed somewhere in the text
	if node.TagName == "A" && node.NextSibling != nil && node.NextSibling.NodeType == textNode {
		return true
	}
	// font nodes shouldn't be independent elements
	if node.TagName == "FONT" && node.PreviousSibling != nil && node.PreviousSibling.NodeType == elementNode {
		return true
	}
	return false
}

func isWhitespaceNode(node *Node) bool {
	return (node.NodeType == textNode && len(strings.TrimSpace(node.getTextContent())) == 0) ||
		(node.NodeType == elementNode && node.TagName == "BR")
}

func isProbablyVisible(node *Node) bool {
	if node.getStyle("display") == "none" {
		return false
	}
	if node.getStyle("visibility") == "hidden" {
		return false
	}
	if node.hasAttribute("hidden") {
		return false
	}
	if node.hasAttribute("aria-hidden") && node.getAttribute("aria-hidden") == "true" {
		// the figcaption check keeps wikimedia math fallback images visible
		inFigcaption := node.ParentNode != nil && node.ParentNode.LocalName == "figcaption"
		if !inFigcaption && !strings.Contains(node.getClassName(), "fallback-image") {
			return false
		}
	}
	return true
}

// isMarkedNode reports whether the node or one of its ancestors carries a
// caller-injected structural marker class.
func isMarkedNode(node *Node) bool {
	const prefix = "_omnivore"
	for walk := node; walk != nil; walk = walk.ParentNode {
		if strings.HasPrefix(walk.getClassName(), prefix) {
			return true
		}
	}
	return false
}
