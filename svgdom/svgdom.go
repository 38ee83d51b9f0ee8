// Package svgdom provides a small mutable XML tree, tailored for SVG documents.
// Documents are parsed with their namespaces resolved, can be
// navigated and modified in place, and are serialized back
// keeping the original prefixes, comments and declarations.
package svgdom

import "strings"

// Well known namespaces.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// NodeType groups the different kind of nodes.
type NodeType uint8

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "procinst"
	case DirectiveNode:
		return "directive"
	}
	return "<invalid NodeType>"
}

// Name is an XML name. Prefix and Local are kept as written
// in the source, Space is the resolved namespace URI.
type Name struct {
	Prefix, Local string
	Space         string
}

// Qualified returns the name as it is written in markup.
func (n Name) Qualified() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// Attr is an attribute of an element.
type Attr struct {
	Name  Name
	Value string
}

// Node is one node of the tree. A node owns its children;
// the parent link is only a back reference, updated by the
// mutation methods.
type Node struct {
	Type NodeType

	Name  Name   // ElementNode
	Attrs []Attr // ElementNode

	// Data holds the text of TextNode and CommentNode,
	// the raw content of DirectiveNode and the instruction of ProcInstNode
	Data   string
	Target string // ProcInstNode

	parent   *Node
	children []*Node
}

// NewElement returns a detached element.
func NewElement(name Name, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Name: name, Attrs: attrs}
}

// NewText returns a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// Parent returns the node containing n, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes of n. The slice is owned by n
// and must not be modified; use the mutation methods instead.
func (n *Node) Children() []*Node { return n.children }

// FirstChild returns the first child of n, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child of n, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// FirstSignificantChild returns the first child which is not
// a whitespace only text node. Comments are returned.
func (n *Node) FirstSignificantChild() *Node {
	for _, c := range n.children {
		if c.Type == TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		return c
	}
	return nil
}

// Is returns true if n is an element with the given namespace and local name.
func (n *Node) Is(space, local string) bool {
	return n.Type == ElementNode && n.Name.Local == local && n.Name.Space == space
}

// Attr returns the value of the attribute, matching the resolved namespace.
func (n *Node) Attr(space, local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the attribute value, replacing any attribute with
// the same namespace and local name.
func (n *Node) SetAttr(name Name, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == name.Local && a.Name.Space == name.Space {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr removes the attribute, if present, and reports whether it was.
func (n *Node) RemoveAttr(space, local string) bool {
	for i, a := range n.Attrs {
		if a.Name.Local == local && a.Name.Space == space {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Text returns the concatenation of all the descendant text nodes.
func (n *Node) Text() string {
	if n.Type == TextNode {
		return n.Data
	}
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// AppendChild adds c as the last child of n.
// If c is already in a tree, it is first removed from its parent.
func (n *Node) AppendChild(c *Node) {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches c from n and reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	for i, child := range n.children {
		if child == c {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			c.parent = nil
			return true
		}
	}
	return false
}

// ReplaceChild puts c at the position of old, which is detached.
// If c is already in a tree, it is first removed from its parent.
// It reports false, and does nothing, if old is not a child of n.
func (n *Node) ReplaceChild(c, old *Node) bool {
	if c == old {
		return old.parent == n
	}
	if old.parent != n {
		return false
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	for i, child := range n.children {
		if child == old {
			n.children[i] = c
			c.parent = n
			old.parent = nil
			return true
		}
	}
	return false
}

// RemoveChildren detaches every child of n.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Walk calls fn for n and its descendants, in document order.
// When fn returns false, the children of the current node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Select returns the descendants of n (n included) matching the
// predicate, in document order. The result is collected before
// returning, so the caller may freely mutate the tree afterward.
func (n *Node) Select(match func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Document is the top-level node of a parsed file.
type Document struct {
	Node
}

// NewDocument returns a document with the given root element.
func NewDocument(root *Node) *Document {
	doc := &Document{Node: Node{Type: DocumentNode}}
	if root != nil {
		doc.AppendChild(root)
	}
	return doc
}

// Root returns the document element, or nil.
func (d *Document) Root() *Node {
	for _, c := range d.children {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}
