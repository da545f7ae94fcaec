// Package xmltree holds a parsed XML document as a plain node tree and
// offers the small set of navigation primitives the extractor is built on.
// Every accessor is safe to call on a nil node; a missing subtree simply
// yields empty results.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Attr is a single element attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is either an element (Tag set) or a text run (Tag empty, Text set).
// Nodes holds element and text children interleaved in document order.
type Node struct {
	Tag   string
	Text  string
	Attrs []Attr
	Nodes []*Node
}

// Parse reads the whole document from r into a tree. The returned node is a
// synthetic document node whose children are the top-level elements. A
// document that cannot be decoded as XML is a fatal error for the caller;
// there is no partial result.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	root := &Node{}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			parent := stack[len(stack)-1]
			parent.Nodes = append(parent.Nodes, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 1 {
				return nil, errors.New("parse xml: unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(t) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Nodes = append(parent.Nodes, &Node{Text: string(t)})
		}
	}

	if len(stack) != 1 {
		return nil, errors.New("parse xml: unexpected end of document")
	}
	return root, nil
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Tag != ""
}

// Child returns the first direct child element named tag, or nil.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Nodes {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Children returns the direct child elements named tag, or all direct child
// elements when tag is empty.
func (n *Node) Children(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Nodes {
		if !c.IsElement() {
			continue
		}
		if tag == "" || c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every element named tag anywhere below n, depth-first
// in document order.
func (n *Node) Descendants(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Nodes {
			if !c.IsElement() {
				continue
			}
			if c.Tag == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Find resolves a tag path segment by segment. Each segment searches the
// whole descendant subtree of the current node and takes the first match;
// a tag that recurs at an unrelated depth can therefore shadow the intended
// element. The extractor navigates with Child along known paths instead and
// keeps Find for the cases where a subtree-wide scan is the point.
func (n *Node) Find(path ...string) *Node {
	return n.FindN(0, path...)
}

// FindN is Find with an explicit match position per segment.
func (n *Node) FindN(index int, path ...string) *Node {
	cur := n
	for _, tag := range path {
		matches := cur.Descendants(tag)
		if index < 0 || index >= len(matches) {
			return nil
		}
		cur = matches[index]
	}
	return cur
}

// text returns the joined, trimmed direct text content of n.
func (n *Node) text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range n.Nodes {
		if !c.IsElement() {
			b.WriteString(c.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// ChildText joins the direct text of n's child elements with connector.
// When keys is non-empty only children with those tags contribute, in
// document order. Empty children are skipped. With withKeys each value is
// prefixed by its tag name and a colon.
func (n *Node) ChildText(keys []string, connector string, withKeys bool) string {
	if n == nil {
		return ""
	}
	var parts []string
	for _, c := range n.Nodes {
		if !c.IsElement() {
			continue
		}
		if len(keys) > 0 && !contains(keys, c.Tag) {
			continue
		}
		content := c.text()
		if content == "" {
			continue
		}
		if withKeys {
			content = c.Tag + ":" + content
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, connector)
}

// AttrText joins n's attribute values with connector, filtered to keys when
// non-empty. With withKeys each value is prefixed by the attribute name and
// a colon.
func (n *Node) AttrText(keys []string, connector string, withKeys bool) string {
	if n == nil {
		return ""
	}
	var parts []string
	for _, a := range n.Attrs {
		if len(keys) > 0 && !contains(keys, a.Name) {
			continue
		}
		if withKeys {
			parts = append(parts, a.Name+":"+a.Value)
			continue
		}
		parts = append(parts, a.Value)
	}
	return strings.Join(parts, connector)
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// MixedText flattens n's content in document order: text runs are trimmed
// and kept when non-empty, inline child elements (sup, sub, i and friends)
// lose their markup but keep their text. Fragments are joined with
// connector.
func (n *Node) MixedText(connector string) string {
	if n == nil {
		return ""
	}
	var parts []string
	for _, c := range n.Nodes {
		if c.IsElement() {
			parts = append(parts, n.ChildText([]string{c.Tag}, "-", false))
			continue
		}
		content := strings.TrimSpace(c.Text)
		if content == "" {
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, connector)
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
