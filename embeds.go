package readability

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"
)

// Social embeds are replaced with lightweight placeholder divs, so the
// frontend can hydrate them back into real embeds later. The placeholder
// keeps the post id in a data attribute.

func newTweetPlaceholder(id string) *Node {
	div := newElement("div")
	div.setClassName("tweet-placeholder")
	div.setAttribute("data-tweet-id", id)
	div.setTextContent("Tweet placeholder")
	return div
}

func newInstagramPlaceholder(id string) *Node {
	div := newElement("div")
	div.setClassName("instagram-placeholder")
	div.setAttribute("data-instagram-id", id)
	div.setTextContent("Instagram placeholder")
	return div
}

// replaceWrapperChildren empties the parent of target and leaves only the
// placeholder in it, then collapses the single-child wrappers above.
func replaceWrapperChildren(target, placeholder *Node) *Node {
	parent := target.ParentNode
	if parent == nil {
		return nil
	}
	for parent.firstChild() != nil {
		parent.removeChild(parent.firstChild())
	}
	parent.appendChild(placeholder)

	for parent.ParentNode != nil && parent.TagName != "BODY" && len(parent.ChildNodes) == 1 {
		grand := parent.ParentNode
		grand.replaceChild(placeholder, parent)
		parent = grand
	}
	return parent
}

// replaceNodeCollapsing swaps the node for the placeholder and collapses
// any now single-child wrappers above it.
func replaceNodeCollapsing(node, placeholder *Node) {
	parent := node.ParentNode
	if parent == nil {
		return
	}
	parent.replaceChild(placeholder, node)

	for parent.ParentNode != nil && parent.TagName != "BODY" && len(parent.ChildNodes) == 1 {
		grand := parent.ParentNode
		grand.replaceChild(placeholder, parent)
		parent = grand
	}
}

// createPlaceholders swaps tweets and instagram posts, whether inlined as
// anchors or as iframes, for placeholders.
func (r *Readability) createPlaceholders(ctx context.Context, e *Node) {
	for _, element := range e.getElementsByTagName("a") {
		if element.ParentNode == nil || r.isEmbed(element) {
			continue
		}
		href := element.getHref()

		if m := tweetUrl.FindStringSubmatch(href); m != nil && r.parentClassIncludes(element, "tweet") {
			placeholder := newTweetPlaceholder(m[2])
			parent := replaceWrapperChildren(element, placeholder)
			if parent != nil && parent.ParentNode != nil &&
				strings.Contains(parent.getClassName(), "twitter-tweet") {
				parent.ParentNode.replaceChild(placeholder, parent)
			}
			continue
		}

		if m := instagramUrl.FindStringSubmatch(href); m != nil && r.parentClassIncludes(element, "instagram") {
			replaceNodeCollapsing(element, newInstagramPlaceholder(m[2]))
			continue
		}

		// Tweets are often linked through shorteners, only the final URL
		// gives the status id away.
		if element.ParentNode.getClassName() == "tweet" && href != "" && r.options.linkResolver != nil {
			finalURL, err := r.options.linkResolver(ctx, href)
			if err != nil {
				r.log.Debug().Err(err).Str("href", href).Msg("cannot resolve link")
				continue
			}
			if m := tweetUrl.FindStringSubmatch(finalURL); m != nil {
				placeholder := newTweetPlaceholder(m[2])
				parent := element.ParentNode
				if parent.ParentNode != nil {
					parent.ParentNode.replaceChild(placeholder, parent)
				}
			}
		}
	}

	for _, iframe := range e.getElementsByTagName("iframe") {
		if iframe.ParentNode == nil {
			continue
		}
		if id := iframe.getAttribute("data-tweet-id"); id != "" {
			replaceNodeCollapsing(iframe, newTweetPlaceholder(id))
			continue
		}
		if src := iframe.getSrc(); strings.Contains(src, "instagram.com/p") {
			if m := instagramUrl.FindStringSubmatch(src); m != nil {
				replaceNodeCollapsing(iframe, newInstagramPlaceholder(m[2]))
			}
		}
	}
}

// isEmbed reports whether the node sits inside an embed wrapper.
func (r *Readability) isEmbed(node *Node) bool {
	for walk := node; walk != nil && walk.TagName != "BODY"; walk = walk.ParentNode {
		if slices.Contains(embedsClasses, walk.getClassName()) {
			return true
		}
	}
	return false
}

// hasEmbed reports whether the node holds an embed wrapper somewhere in
// its subtree.
func (r *Readability) hasEmbed(node *Node) bool {
	found := node.findAll(func(n *Node) bool {
		return slices.Contains(embedsClasses, n.getClassName())
	})
	return len(found) > 0
}

func (r *Readability) hasTweetInChildren(node *Node) bool {
	found := node.findAll(func(n *Node) bool {
		return n.getClassName() == "tweet-placeholder"
	})
	return len(found) > 0
}

// parentClassIncludes reports whether any ancestor, up to the body,
// carries the given substring in its class attribute.
func (r *Readability) parentClassIncludes(node *Node, substring string) bool {
	for walk := node.ParentNode; walk != nil && walk.TagName != "BODY"; walk = walk.ParentNode {
		if strings.Contains(walk.getClassName(), substring) {
			return true
		}
	}
	return false
}

// resolveFinalURL is the default link resolver, it follows redirects and
// returns the last URL.
func resolveFinalURL(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return resp.Request.URL.String(), nil
}
