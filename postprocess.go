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
	"slices"
	"strconv"
	"strings"
)

// postProcessContent runs any post-process modifications to article
// content as necessary.
func (r *Readability) postProcessContent(articleContent *Node) {
	// Readability cannot open relative uris so we convert them to
	// absolute uris.
	r.fixRelativeUris(articleContent)

	r.createImageProxyLinks(articleContent)

	r.simplifyNestedElements(articleContent)

	// Remove classes.
	if !r.options.keepClasses {
		r.cleanClasses(articleContent)
	}
}

// fixRelativeUris converts each <a> and media uri in the given element
// to an absolute one.
func (r *Readability) fixRelativeUris(articleContent *Node) {
	for _, link := range articleContent.getElementsByTagName("a") {
		href := link.getHref()
		if href == "" || link.ParentNode == nil {
			continue
		}

		// Remove links with javascript: URIs, since they won't work
		// after scripts have been removed from the page.
		if strings.HasPrefix(href, "javascript:") {
			if len(link.ChildNodes) == 1 && link.ChildNodes[0].NodeType == textNode {
				// If the link only contains simple text content, it can
				// be converted to a text node.
				text := newText(link.getTextContent())
				link.ParentNode.replaceChild(text, link)
			} else {
				// If the link has multiple children, they should all be
				// preserved.
				container := newElement("span")
				for link.firstChild() != nil {
					container.appendChild(link.firstChild())
				}
				link.ParentNode.replaceChild(container, link)
			}
			continue
		}

		link.setAttribute("href", r.toAbsoluteURI(href))
	}

	for _, media := range getAllNodesWithTag(articleContent, "img", "picture", "figure", "video", "audio", "source") {
		if src := media.getSrc(); src != "" {
			media.setAttribute("src", r.toAbsoluteURI(src))
		}
		if poster := media.getAttribute("poster"); poster != "" {
			media.setAttribute("poster", r.toAbsoluteURI(poster))
		}
	}
}

// cleanDimension accepts only plain integer attribute values, anything
// with units or garbage is treated as unknown.
func cleanDimension(value string) int {
	value = strings.TrimSpace(value)
	n, err := strconv.Atoi(value)
	if err != nil || strconv.Itoa(n) != value {
		return 0
	}
	return n
}

// createImageProxyLinks routes every image through the configured proxy,
// keeping the original source around in a data attribute.
func (r *Readability) createImageProxyLinks(articleContent *Node) {
	if r.options.imageProxy == nil {
		return
	}
	proxy := r.options.imageProxy

	for _, img := range articleContent.getElementsByTagName("img") {
		img.removeAttribute("crossorigin")

		src := anyOf(img.getAttribute("data-src"), img.getSrc())
		if src == "" || imageDataUri.MatchString(src) {
			continue
		}

		absoluteSrc := r.toAbsoluteURI(src)
		width := cleanDimension(anyOf(img.getAttribute("width"), img.getStyle("width")))
		height := cleanDimension(anyOf(img.getAttribute("height"), img.getStyle("height")))

		img.setAttribute("src", proxy(absoluteSrc, width, height))
		img.setAttribute("data-omnivore-original-src", absoluteSrc)
	}

	for _, elem := range getAllNodesWithTag(articleContent, "img", "source") {
		srcset := elem.getSrcset()
		if srcset == "" {
			continue
		}

		// A data uri srcset next to a regular src is a lazy-loading
		// artifact, the src alone is enough.
		if imageDataUri.MatchString(srcset) {
			if elem.getSrc() != "" {
				elem.removeAttribute("srcset")
			}
			continue
		}

		elem.setAttribute("srcset", srcsetUrl.ReplaceAllStringFunc(srcset, func(m string) string {
			parts := srcsetUrl.FindStringSubmatch(m)
			link := r.toAbsoluteURI(parts[1])
			descriptor := strings.TrimSpace(parts[2])
			tail := parts[3]

			if descriptor == "" {
				return proxy(link, 0, 0) + tail
			}
			if strings.HasSuffix(descriptor, "w") {
				width := cleanDimension(strings.TrimSuffix(descriptor, "w"))
				return proxy(link, width, 0) + " " + descriptor + tail
			}
			return proxy(link, 0, 0) + " " + descriptor + tail
		}))
	}
}

// simplifyNestedElements unwraps pointless div and section nesting left
// behind by the cleanup passes.
func (r *Readability) simplifyNestedElements(articleContent *Node) {
	node := articleContent
	for node != nil {
		if slices.Contains(placeholderClasses, node.getClassName()) || r.isEmbed(node) || r.hasEmbed(node) {
			node = getNextNode(node, false)
			continue
		}

		if node.ParentNode != nil && (node.TagName == "DIV" || node.TagName == "SECTION") &&
			!isMarkedNode(node) && !strings.HasPrefix(node.getId(), "readability") {
			if isElementWithoutContent(node) {
				node = r.removeAndGetNext(node)
				continue
			}
			if hasSingleTagInsideElement(node, "DIV") || hasSingleTagInsideElement(node, "SECTION") {
				child := node.Children[0]
				// A lone placeholder stays wrapped, the wrapper carries
				// its layout.
				if !slices.Contains(placeholderClasses, child.getClassName()) {
					for _, attr := range node.Attributes {
						child.setAttribute(attr.name, attr.value)
					}
					node.ParentNode.replaceChild(child, node)
					node = child
					continue
				}
			}
		}

		node = getNextNode(node, false)
	}
}

// cleanClasses removes the class="" attribute from every element in the
// given subtree, except those that are explicitly preserved and the
// embeds the pipeline injected itself.
func (r *Readability) cleanClasses(node *Node) {
	if isMarkedNode(node) || slices.Contains(embedsClasses, node.getClassName()) || r.hasEmbed(node) {
		return
	}

	var kept []string
	for _, cls := range strings.Fields(node.getClassName()) {
		if slices.Contains(r.options.classesToPreserve, cls) {
			kept = append(kept, cls)
		}
	}

	if len(kept) > 0 {
		node.setAttribute("class", strings.Join(kept, " "))
	} else {
		node.removeAttribute("class")
	}

	for _, child := range node.Children {
		r.cleanClasses(child)
	}
}
