package readability

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// See https://developer.mozilla.org/en-US/docs/Web/API/Node/nodeType
const (
	_ = iota
	elementNode
	attributeNode
	textNode
	cdataSectionNode
	entityReferenceNode
	entityNode
	processingInstructionNode
	commentNode
	documentNode
	documentTypeNode
	documentFragmentNode
	notationNode
)

// Elements that can be self-closing
var voidElems = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"command": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"wbr":     true,
}

var attrValueReplacer = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

var textContentReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// nodeScore holds the accumulated content score for a candidate element.
// A nil pointer on the node means the element was never initialized.
type nodeScore struct {
	total float64
}

type attribute struct {
	name, value string
}

// Node is a mutable element of the document tree the parser works on.
// It is built from an x/net/html parse tree and owned by a single Parser.
type Node struct {
	NodeType    int
	LocalName   string
	nodeName    string
	textContent string
	TagName     string
	Attributes  []*attribute
	// relations
	ParentNode             *Node
	NextSibling            *Node
	PreviousSibling        *Node
	PreviousElementSibling *Node
	NextElementSibling     *Node
	ChildNodes             []*Node
	Children               []*Node
	// document
	DocumentURI     string
	baseURI         string
	title           string
	head            *Node
	Body            *Node
	DocumentElement *Node
	// scorer side data
	score     *nodeScore
	dataTable *bool
}

func newDocument(uri string) *Node {
	return &Node{
		DocumentURI: uri,
		nodeName:    "#document",
		NodeType:    documentNode,
	}
}

func newElement(tag string) *Node {
	// Non-namespace aware on purpose, namespaced tags are treated as HTML.
	if idx := strings.LastIndex(tag, ":"); idx != -1 {
		tag = tag[idx+1:]
	}
	return &Node{
		NodeType:  elementNode,
		LocalName: strings.ToLower(tag),
		TagName:   strings.ToUpper(tag),
	}
}

func newText(text string) *Node {
	return &Node{
		nodeName:    "#text",
		NodeType:    textNode,
		textContent: text,
	}
}

func (d *Node) createElement(tag string) *Node {
	return newElement(tag)
}

func (d *Node) createTextNode(text string) *Node {
	return newText(text)
}

// parseDocument builds the owned tree out of an x/net/html parse tree.
func parseDocument(htmlSource, uri string) (*Node, error) {
	root, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return nil, err
	}

	doc := newDocument(uri)

	var walk func(from *html.Node, to *Node)
	walk = func(from *html.Node, to *Node) {
		for c := from.FirstChild; c != nil; c = c.NextSibling {
			mapped := mapNode(c)
			if mapped == nil {
				continue
			}
			to.appendChild(mapped)

			if mapped.NodeType == elementNode {
				switch mapped.LocalName {
				case "title":
					if doc.title == "" {
						doc.title = strings.TrimSpace(textOf(c))
					}
				case "head":
					doc.head = mapped
				case "body":
					doc.Body = mapped
				case "html":
					doc.DocumentElement = mapped
				}
			}
			walk(c, mapped)
		}
	}
	walk(root, doc)

	return doc, nil
}

func mapNode(from *html.Node) *Node {
	switch from.Type {
	case html.ElementNode:
		to := newElement(from.Data)
		for _, a := range from.Attr {
			to.setAttribute(a.Key, a.Val)
		}
		return to
	case html.TextNode:
		return newText(from.Data)
	}
	// comments and doctypes are dropped
	return nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		} else {
			sb.WriteString(textOf(c))
		}
	}
	return sb.String()
}

// parseFragment maps an HTML snippet to detached nodes, as if it appeared
// inside a <body>.
func parseFragment(htmlSource string) []*Node {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(strings.NewReader(htmlSource), ctx)
	if err != nil {
		return nil
	}

	var nodes []*Node
	for _, p := range parsed {
		mapped := mapNode(p)
		if mapped == nil {
			continue
		}
		var walk func(from *html.Node, to *Node)
		walk = func(from *html.Node, to *Node) {
			for c := from.FirstChild; c != nil; c = c.NextSibling {
				m := mapNode(c)
				if m == nil {
					continue
				}
				to.appendChild(m)
				walk(c, m)
			}
		}
		walk(p, mapped)
		nodes = append(nodes, mapped)
	}
	return nodes
}

func (n *Node) firstChild() *Node {
	if len(n.ChildNodes) == 0 {
		return nil
	}
	return n.ChildNodes[0]
}

func (n *Node) firstElementChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func (n *Node) lastChild() *Node {
	if len(n.ChildNodes) == 0 {
		return nil
	}
	return n.ChildNodes[len(n.ChildNodes)-1]
}

func (n *Node) lastElementChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// relink rebuilds Children and every sibling pointer from ChildNodes.
// All mutations funnel through it, which keeps the pointer bookkeeping in
// one place.
func (n *Node) relink() {
	n.Children = n.Children[:0]
	var prev, prevElem *Node
	for _, c := range n.ChildNodes {
		c.ParentNode = n
		c.PreviousSibling = prev
		c.NextSibling = nil
		if prev != nil {
			prev.NextSibling = c
		}
		prev = c
		if c.NodeType == elementNode {
			c.PreviousElementSibling = prevElem
			c.NextElementSibling = nil
			if prevElem != nil {
				prevElem.NextElementSibling = c
			}
			prevElem = c
			n.Children = append(n.Children, c)
		}
	}
}

func (n *Node) detach(child *Node) {
	child.ParentNode = nil
	child.PreviousSibling = nil
	child.NextSibling = nil
	child.PreviousElementSibling = nil
	child.NextElementSibling = nil
}

func (n *Node) appendChild(child *Node) {
	if child.ParentNode != nil {
		child.ParentNode.removeChild(child)
	}
	n.ChildNodes = append(n.ChildNodes, child)
	n.relink()
}

func (n *Node) prependChild(child *Node) {
	if child.ParentNode != nil {
		child.ParentNode.removeChild(child)
	}
	n.ChildNodes = append([]*Node{child}, n.ChildNodes...)
	n.relink()
}

func (n *Node) removeChild(child *Node) *Node {
	idx := indexOf(child, n.ChildNodes)
	if idx == -1 {
		return nil
	}
	n.ChildNodes = append(n.ChildNodes[:idx], n.ChildNodes[idx+1:]...)
	n.detach(child)
	n.relink()
	return child
}

func (n *Node) replaceChild(newNode, oldNode *Node) *Node {
	idx := indexOf(oldNode, n.ChildNodes)
	if idx == -1 {
		return nil
	}
	if newNode.ParentNode != nil {
		newNode.ParentNode.removeChild(newNode)
	}
	n.ChildNodes[idx] = newNode
	n.detach(oldNode)
	n.relink()
	return oldNode
}

func (n *Node) insertBefore(newNode, ref *Node) {
	idx := indexOf(ref, n.ChildNodes)
	if idx == -1 {
		n.appendChild(newNode)
		return
	}
	if newNode.ParentNode != nil {
		newNode.ParentNode.removeChild(newNode)
	}
	n.ChildNodes = insert(newNode, idx, n.ChildNodes)
	n.relink()
}

func (n *Node) getElementsByTagName(tag string) []*Node {
	tag = strings.ToUpper(tag)
	allTags := tag == "*"

	var elems []*Node
	var walk func(from *Node)
	walk = func(from *Node) {
		for _, child := range from.Children {
			if allTags || child.TagName == tag {
				elems = append(elems, child)
			}
			walk(child)
		}
	}
	walk(n)
	return elems
}

// findAll returns descendant elements matching pred, in document order.
func (n *Node) findAll(pred func(*Node) bool) []*Node {
	var elems []*Node
	var walk func(from *Node)
	walk = func(from *Node) {
		for _, child := range from.Children {
			if pred(child) {
				elems = append(elems, child)
			}
			walk(child)
		}
	}
	walk(n)
	return elems
}

func (n *Node) getElementById(id string) *Node {
	var find func(from *Node) *Node
	find = func(from *Node) *Node {
		if from.getId() == id {
			return from
		}
		for _, child := range from.Children {
			if el := find(child); el != nil {
				return el
			}
		}
		return nil
	}
	return find(n)
}

func (d *Node) getBaseURI() string {
	if d.baseURI == "" {
		d.baseURI = d.DocumentURI
		baseElements := d.getElementsByTagName("base")
		if len(baseElements) != 0 {
			href := baseElements[0].getAttribute("href")
			if href != "" {
				base, err := url.Parse(d.baseURI)
				if err != nil {
					return d.DocumentURI
				}
				ref, err := url.Parse(href)
				if err != nil {
					return d.DocumentURI
				}
				d.baseURI = base.ResolveReference(ref).String()
			}
		}
	}
	return d.baseURI
}

func (n *Node) getAttribute(name string) string {
	for _, attr := range n.Attributes {
		if attr.name == name {
			return attr.value
		}
	}
	return ""
}

// GetAttribute returns the value of the named attribute, or "".
func (n *Node) GetAttribute(name string) string {
	return n.getAttribute(name)
}

func (n *Node) setAttribute(name, value string) {
	for _, attr := range n.Attributes {
		if attr.name == name {
			attr.value = value
			return
		}
	}
	n.Attributes = append(n.Attributes, &attribute{name: name, value: value})
}

func (n *Node) removeAttribute(name string) {
	for idx, attr := range n.Attributes {
		if attr.name == name {
			n.Attributes = append(n.Attributes[:idx], n.Attributes[idx+1:]...)
			break
		}
	}
}

func (n *Node) hasAttribute(name string) bool {
	for _, attr := range n.Attributes {
		if attr.name == name {
			return true
		}
	}
	return false
}

func (n *Node) getClassName() string {
	return n.getAttribute("class")
}

func (n *Node) setClassName(str string) {
	n.setAttribute("class", str)
}

func (n *Node) getId() string {
	return n.getAttribute("id")
}

func (n *Node) getHref() string {
	return n.getAttribute("href")
}

func (n *Node) getSrc() string {
	return n.getAttribute("src")
}

func (n *Node) getSrcset() string {
	return n.getAttribute("srcset")
}

// getStyle returns the value of a css property from the inline style
// attribute, if any.
func (n *Node) getStyle(cssName string) string {
	attr := n.getAttribute("style")
	if attr == "" {
		return ""
	}
	for _, decl := range strings.Split(attr, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		if strings.TrimSpace(name) == cssName {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (n *Node) getNodeName() string {
	if n.NodeType == elementNode {
		return n.TagName
	}
	return n.nodeName
}

// GetInnerHTML serializes the children of n back to HTML.
func (n *Node) GetInnerHTML() string {
	if n.NodeType == textNode {
		return textContentReplacer.Replace(n.textContent)
	}

	var sb strings.Builder
	var render func(from *Node)
	render = func(from *Node) {
		for _, child := range from.ChildNodes {
			if child.NodeType == textNode {
				sb.WriteString(textContentReplacer.Replace(child.textContent))
				continue
			}
			sb.WriteString("<" + child.LocalName)
			for _, attr := range child.Attributes {
				sb.WriteString(" " + attr.name + `="` + attrValueReplacer.Replace(attr.value) + `"`)
			}
			if voidElems[child.LocalName] {
				sb.WriteString("/>")
			} else {
				sb.WriteString(">")
				render(child)
				sb.WriteString("</" + child.LocalName + ">")
			}
		}
	}
	render(n)
	return sb.String()
}

func (n *Node) getInnerHTML() string {
	return n.GetInnerHTML()
}

// SetInnerHTML replaces the children of n with the parsed snippet.
func (n *Node) SetInnerHTML(htmlSource string) {
	if n.NodeType == textNode {
		n.textContent = htmlSource
		return
	}
	for _, child := range n.ChildNodes {
		n.detach(child)
	}
	n.ChildNodes = n.ChildNodes[:0]
	for _, mapped := range parseFragment(htmlSource) {
		n.ChildNodes = append(n.ChildNodes, mapped)
	}
	n.relink()
}

func (n *Node) setInnerHTML(htmlSource string) {
	n.SetInnerHTML(htmlSource)
}

func (n *Node) setTextContent(text string) {
	if n.NodeType != elementNode {
		n.textContent = text
		return
	}
	for _, child := range n.ChildNodes {
		n.detach(child)
	}
	n.ChildNodes = []*Node{}
	n.appendChild(newText(text))
}

// GetTextContent returns the concatenated text of all descendant text nodes.
func (n *Node) GetTextContent() string {
	if n.NodeType == textNode {
		return n.textContent
	}
	var sb strings.Builder
	var walk func(from *Node)
	walk = func(from *Node) {
		for _, child := range from.ChildNodes {
			if child.NodeType == textNode {
				sb.WriteString(child.textContent)
			} else {
				walk(child)
			}
		}
	}
	walk(n)
	return sb.String()
}

func (n *Node) getTextContent() string {
	return n.GetTextContent()
}
