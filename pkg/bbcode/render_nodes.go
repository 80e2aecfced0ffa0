package bbcode

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderNodes renders a forest into detached html.Node trees, one per top-level
// output element or text run. The result can be serialized with html.Render or
// mapped onto another element model.
func RenderNodes(nodes []Node, params Params) []*html.Node {
	out := newNodeSink()
	r := &renderer{out: out}
	r.render(nodes, params)
	return out.detach()
}

// nodeSink builds html.Node trees under a scratch root.
type nodeSink struct {
	root *html.Node
	cur  *html.Node
}

func newNodeSink() *nodeSink {
	root := &html.Node{Type: html.DocumentNode}
	return &nodeSink{root: root, cur: root}
}

func (s *nodeSink) text(text string) {
	for i, line := range splitLines(text) {
		if i > 0 {
			s.cur.AppendChild(elementNode(newElement("br")))
		}
		if line == "" {
			continue
		}
		s.cur.AppendChild(&html.Node{Type: html.TextNode, Data: hardSpaces(line)})
	}
}

func (s *nodeSink) open(e element) {
	n := elementNode(e)
	s.cur.AppendChild(n)
	s.cur = n
}

func (s *nodeSink) close(element) {
	if s.cur.Parent != nil {
		s.cur = s.cur.Parent
	}
}

func (s *nodeSink) void(e element) {
	s.cur.AppendChild(elementNode(e))
}

func (s *nodeSink) detach() []*html.Node {
	var nodes []*html.Node
	for c := s.root.FirstChild; c != nil; {
		next := c.NextSibling
		s.root.RemoveChild(c)
		nodes = append(nodes, c)
		c = next
	}
	return nodes
}

func elementNode(e element) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.name,
		DataAtom: atom.Lookup([]byte(e.name)),
	}
	if len(e.attrs) > 0 {
		n.Attr = append([]html.Attribute(nil), e.attrs...)
	}
	return n
}

// splitLines splits on CRLF, CR and LF.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// hardSpaces replaces ordinary spaces with U+00A0, the node form of &nbsp;.
// Other whitespace is kept as the character itself.
func hardSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "\u00a0")
}
