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
	"math"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// isNodeVisible checks inline styles and attributes only, which is all
// that is available without a rendering engine.
func isNodeVisible(node *html.Node) bool {
	for _, decl := range strings.Split(attr(node, "style"), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "display" && value == "none" {
			return false
		}
		if name == "visibility" && value == "hidden" {
			return false
		}
	}

	for _, a := range node.Attr {
		if a.Key == "hidden" {
			return false
		}
	}

	if attr(node, "aria-hidden") == "true" && !strings.Contains(attr(node, "class"), "fallback-image") {
		return false
	}
	return true
}

// IsProbablyReaderable decides whether or not the document is reader-able
// without parsing the whole thing. It is a cheap check meant to run
// before a full Parse.
func IsProbablyReaderable(htmlSource string, opts ...Option) bool {
	options := defaultOpts()
	for _, opt := range opts {
		opt(options)
	}

	doc, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return false
	}

	nodes := querySelectorAll(doc, "p, pre, article")

	// Get <div> nodes which have <br> node(s) and append them into the
	// `nodes` variable. Some articles' DOM structures might look like:
	//
	//	<div>
	//	  Sentences<br>
	//	  <br>
	//	  Sentences<br>
	//	</div>
	for _, br := range querySelectorAll(doc, "div > br") {
		if br.Parent != nil && !slices.Contains(nodes, br.Parent) {
			nodes = append(nodes, br.Parent)
		}
	}

	score := 0.0
	// This is a little cheeky, we use the accumulator 'score' to decide
	// what to return from this callback.
	for _, node := range nodes {
		if !options.visibilityChecker(node) {
			continue
		}

		matchString := attr(node, "class") + " " + attr(node, "id")
		if unlikelyCandidates.MatchString(matchString) &&
			!(okMaybeItsACandidate.MatchString(matchString) && !notACandidateAfterAll.MatchString(matchString)) {
			continue
		}

		if matches(node, "li p") {
			continue
		}

		textContentLength := len(strings.TrimSpace(textContent(node)))
		if textContentLength < options.minContentLength {
			continue
		}

		score += math.Sqrt(float64(textContentLength - options.minContentLength))
		if score > options.minScore {
			return true
		}
	}
	return false
}
