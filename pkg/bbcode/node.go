package bbcode

import (
	"fmt"
	"sort"
	"strings"
)

// Node is an element of a parsed forest: either a *TextNode or a *TagNode.
type Node interface {
	String() string
	node()
}

// TextNode holds literal content with entities already decoded.
type TextNode struct {
	Text string
}

func (n *TextNode) node() {}

func (n *TextNode) String() string {
	return fmt.Sprintf("Text(%q)", n.Text)
}

// Attrs maps attribute names to values. A tag's default value ([size=3]) is
// stored under the tag's own name.
type Attrs map[string]string

// Get returns the value for key, or "" when absent.
func (a Attrs) Get(key string) string {
	return a[key]
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TagNode is a structural tag with its children.
type TagNode struct {
	Tag      string
	Kind     TagKind
	Attrs    Attrs
	Children []Node
}

// NewTagNode builds a tag node, resolving Kind from the tag table. Unknown
// names get TagGeneric.
func NewTagNode(tag string, attrs Attrs, children ...Node) *TagNode {
	spec, _ := LookupTag(tag)
	if attrs == nil {
		attrs = Attrs{}
	}
	return &TagNode{
		Tag:      tag,
		Kind:     spec.Kind,
		Attrs:    attrs,
		Children: children,
	}
}

func (n *TagNode) node() {}

func (n *TagNode) String() string {
	if len(n.Attrs) == 0 {
		return fmt.Sprintf("Tag(%s)", n.Tag)
	}
	parts := make([]string, 0, len(n.Attrs))
	for _, k := range n.Attrs.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%q", k, n.Attrs[k]))
	}
	return fmt.Sprintf("Tag(%s %s)", n.Tag, strings.Join(parts, " "))
}

// TextContent returns the text of a tag's only child when that child is a
// text node.
func (n *TagNode) TextContent() (string, bool) {
	if len(n.Children) != 1 {
		return "", false
	}
	text, ok := n.Children[0].(*TextNode)
	if !ok {
		return "", false
	}
	return text.Text, true
}

// FormatTree renders a forest as an indented listing, one node per line.
func FormatTree(nodes []Node) string {
	var sb strings.Builder
	formatTree(&sb, nodes, 0)
	return sb.String()
}

func formatTree(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.String())
		sb.WriteByte('\n')
		if tag, ok := n.(*TagNode); ok {
			formatTree(sb, tag.Children, depth+1)
		}
	}
}
