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
	"strings"
)

// prepDocument prepares the HTML document for readability to scrape it.
// This includes things like stripping CSS, and handling terrible markup.
func (r *Readability) prepDocument(ctx context.Context) {
	removeNodes(r.doc.getElementsByTagName("style"), nil)

	if r.doc.Body != nil {
		r.replaceBrs(r.doc.Body)
	}

	r.replaceNodeTags(r.doc.getElementsByTagName("font"), "SPAN")
}

// nextNode finds the next node, starting from the given one, and ignoring
// whitespace in between. If the given node is an element, the same node is
// returned.
func nextNode(node *Node) *Node {
	for node != nil && node.NodeType != elementNode && whitespace.MatchString(node.getTextContent()) {
		node = node.NextSibling
	}
	return node
}

// replaceBrs replaces 2 or more successive <br> elements with a single <p>.
// Whitespace between <br> elements is ignored. For example:
//
//	<div>foo<br>bar<br> <br><br>abc</div>
//
// will become:
//
//	<div>foo<br>bar<p>abc</p></div>
func (r *Readability) replaceBrs(elem *Node) {
	for _, br := range elem.getElementsByTagName("br") {
		if br.ParentNode == nil {
			continue
		}
		next := br.NextSibling

		// Whether 2 or more <br> elements have been found and replaced
		// with a <p> block.
		replaced := false

		// If we find a <br> chain, remove the <br>s until we hit another
		// node or non-whitespace. This leaves behind the first <br> in the
		// chain (which will be replaced with a <p> later).
		for {
			next = nextNode(next)
			if next == nil || next.TagName != "BR" {
				break
			}
			replaced = true
			brSibling := next.NextSibling
			next.ParentNode.removeChild(next)
			next = brSibling
		}

		// If we removed a <br> chain, replace the remaining <br> with a
		// <p>. Add all sibling nodes as children of the <p> until we hit
		// another <br> chain.
		if replaced {
			p := newElement("p")
			br.ParentNode.replaceChild(p, br)

			next = p.NextSibling
			for next != nil {
				// If we've hit another <br><br>, we're done adding
				// children to this <p>.
				if next.TagName == "BR" {
					nextElem := nextNode(next.NextSibling)
					if nextElem != nil && nextElem.TagName == "BR" {
						break
					}
				}

				if !isPhrasingContent(next) {
					break
				}

				// Otherwise, make this node a child of the new <p>.
				sibling := next.NextSibling
				p.appendChild(next)
				next = sibling
			}

			for p.lastChild() != nil && isWhitespaceNode(p.lastChild()) {
				p.removeChild(p.lastChild())
			}

			if p.ParentNode != nil && p.ParentNode.TagName == "P" {
				r.setNodeTag(p.ParentNode, "DIV")
			}
		}
	}
}

// unwrapNoscriptImages finds all <noscript> that are located after <img>
// nodes, and which contain only one <img> element. Replace the first image
// with the image from inside the <noscript> tag, and remove the
// <noscript> tag. This improves the quality of the images we use on some
// sites (e.g. Medium).
func (r *Readability) unwrapNoscriptImages() {
	// Find img without source or attributes that might contain image, and
	// remove it. This is done to prevent a placeholder img from being
	// replaced by an img from its noscript counterpart.
	removeNodes(r.doc.getElementsByTagName("img"), func(img *Node) bool {
		for _, attr := range img.Attributes {
			switch attr.name {
			case "src", "srcset", "data-src", "data-srcset":
				return false
			}
			if imgExtensions.MatchString(attr.value) {
				return false
			}
		}
		return true
	})

	for _, noscript := range r.doc.getElementsByTagName("noscript") {
		// noscript content survives parsing as raw text
		innerHTML := noscript.getInnerHTML()
		if len(noscript.Children) == 0 {
			innerHTML = noscript.getTextContent()
		}
		tmp := newElement("div")
		tmp.setInnerHTML(innerHTML)
		if !isSingleImage(tmp) {
			continue
		}

		// If noscript has previous sibling, and it only contains image,
		// replace it with noscript content. However, we also keep old
		// attributes that might be useful.
		prevElement := noscript.PreviousElementSibling
		if prevElement == nil || !isSingleImage(prevElement) {
			continue
		}

		prevImg := prevElement
		if prevImg.TagName != "IMG" {
			prevImg = prevElement.getElementsByTagName("img")[0]
		}
		newImg := tmp.getElementsByTagName("img")[0]
		for _, attr := range prevImg.Attributes {
			if attr.value == "" {
				continue
			}
			if attr.name == "src" || attr.name == "srcset" || imgExtensions.MatchString(attr.value) {
				if newImg.getAttribute(attr.name) == attr.value {
					continue
				}
				attrName := attr.name
				if newImg.hasAttribute(attrName) {
					attrName = "data-old-" + attrName
				}
				newImg.setAttribute(attrName, attr.value)
			}
		}

		if noscript.ParentNode != nil && tmp.firstElementChild() != nil {
			noscript.ParentNode.replaceChild(tmp.firstElementChild(), prevElement)
		}
	}
}

// isSingleImage checks if the node is an image, or if the node contains
// exactly only one image whether as a direct child or as its descendants.
func isSingleImage(node *Node) bool {
	if node.TagName == "IMG" {
		return true
	}
	if len(node.Children) != 1 || strings.TrimSpace(node.getTextContent()) != "" {
		return false
	}
	return isSingleImage(node.Children[0])
}

// removeScripts removes script and noscript tags from the document.
func (r *Readability) removeScripts() {
	removeNodes(getAllNodesWithTag(r.doc, "script", "noscript"), nil)
}
