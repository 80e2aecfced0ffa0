package bbcode

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/SusanDoggie/go-bbcode/pkg/bbcode/style"
)

// element describes an output element independently of how it is emitted.
type element struct {
	name  string
	attrs []html.Attribute
}

func newElement(name string) element {
	return element{name: name}
}

// withStyle adds a style attribute when the declarations produce any output.
func (e element) withStyle(decls style.Declarations) element {
	if s := decls.String(); s != "" {
		e.attrs = append(e.attrs, html.Attribute{Key: "style", Val: s})
	}
	return e
}

func (e element) withAttr(key, val string) element {
	e.attrs = append(e.attrs, html.Attribute{Key: key, Val: val})
	return e
}

// sink receives the output of the tag dispatch. The HTML string renderer and
// the node renderer differ only in their sink.
type sink interface {
	text(s string)
	open(e element)
	close(e element)
	void(e element)
}

type renderer struct {
	out sink
}

// Render renders a forest to an HTML string.
func Render(nodes []Node, params Params) string {
	out := &htmlSink{}
	r := &renderer{out: out}
	r.render(nodes, params)
	return out.sb.String()
}

// ToHTML parses source and renders it to HTML.
func ToHTML(source string, params Params) string {
	return Render(Parse(source), params)
}

func (r *renderer) render(nodes []Node, params Params) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *TextNode:
			r.out.text(n.Text)
		case *TagNode:
			r.renderTag(n, params)
		}
	}
}

func (r *renderer) wrap(e element, n *TagNode, params Params) {
	r.out.open(e)
	r.render(n.Children, params)
	r.out.close(e)
}

func (r *renderer) renderTag(n *TagNode, params Params) {
	attrs := n.Attrs

	switch n.Kind {
	case TagBold:
		r.wrap(newElement("strong"), n, params)
	case TagItalic:
		r.wrap(newElement("i"), n, params)
	case TagUnderline:
		r.wrap(newElement("u"), n, params)
	case TagStrike:
		r.wrap(newElement("strike"), n, params)
	case TagSub:
		r.wrap(newElement("sub"), n, params)
	case TagSup:
		r.wrap(newElement("sup"), n, params)

	case TagColor:
		r.wrap(newElement("span").withStyle(style.Declarations{
			{Property: "color", Value: attrs.Get("color")},
		}), n, params)
	case TagSize:
		r.wrap(newElement("span").withStyle(style.Declarations{
			{Property: "font-size", Value: style.FontSize(attrs.Get("size"))},
		}), n, params)
	case TagFont:
		r.wrap(newElement("span").withStyle(style.Declarations{
			{Property: "font-family", Value: attrs.Get("font")},
		}), n, params)

	case TagLeft, TagCenter, TagRight, TagJustify:
		r.wrap(newElement("div").withStyle(style.Declarations{
			{Property: "text-align", Value: n.Kind.String()},
		}), n, params)

	case TagUnorderedList:
		r.wrap(newElement("ul").withStyle(style.Declarations{{Property: "margin", Value: "0"}}), n, params)
	case TagOrderedList:
		r.wrap(newElement("ol").withStyle(style.Declarations{{Property: "margin", Value: "0"}}), n, params)
	case TagListItem:
		r.wrap(newElement("li"), n, params)

	case TagTable:
		r.wrap(newElement("table").withStyle(style.Merge(style.Declarations{
			{Property: "border-collapse", Value: "collapse"},
		}, attrs)), n, params)
	case TagTableRow:
		r.wrap(newElement("tr").withStyle(style.Merge(nil, attrs)), n, params)
	case TagTableCell:
		span, rest := style.Split(attrs, "colspan", "rowspan")
		e := newElement("td").withStyle(style.Merge(style.Declarations{
			{Property: "border", Value: "1px solid gray"},
		}, rest))
		for _, key := range []string{"colspan", "rowspan"} {
			if v, ok := span[key]; ok {
				e = e.withAttr(key, v)
			}
		}
		r.wrap(e, n, params)

	case TagRule:
		r.out.void(newElement("hr"))

	case TagURL:
		r.wrap(newElement("a").withAttr("href", attrs.Get("url")), n, params)

	case TagImage:
		src, _ := n.TextContent()
		r.out.void(newElement("img").
			withStyle(style.ImageSize(attrs.Get("img"), attrs.Get("width"), attrs.Get("height"))).
			withAttr("src", src))

	case TagVar:
		if s := params.Lookup(attrs.Get("var")).String(); s != "" {
			r.out.text(s)
		}

	case TagForeach:
		list, ok := params.Lookup(attrs.Get("foreach")).(ListValue)
		if !ok {
			return
		}
		for _, record := range list {
			r.render(n.Children, params.Overlay(record))
		}

	case TagCond:
		if key := attrs.Get("cond"); key != "" && params.Lookup(key).Truthy() {
			r.render(n.Children, params)
		} else if key := attrs.Get("not"); key != "" && !params.Lookup(key).Truthy() {
			r.render(n.Children, params)
		}

	default:
		r.render(n.Children, params)
	}
}

// htmlSink serializes straight into a string builder.
type htmlSink struct {
	sb strings.Builder
}

func (s *htmlSink) text(text string) {
	writeText(&s.sb, Escape(text))
}

func (s *htmlSink) open(e element) {
	s.startTag(e)
	s.sb.WriteByte('>')
}

func (s *htmlSink) close(e element) {
	s.sb.WriteString("</")
	s.sb.WriteString(e.name)
	s.sb.WriteByte('>')
}

func (s *htmlSink) void(e element) {
	s.startTag(e)
	s.sb.WriteString(" />")
}

func (s *htmlSink) startTag(e element) {
	s.sb.WriteByte('<')
	s.sb.WriteString(e.name)
	for _, attr := range e.attrs {
		s.sb.WriteByte(' ')
		s.sb.WriteString(attr.Key)
		s.sb.WriteString(`="`)
		s.sb.WriteString(Escape(attr.Val))
		s.sb.WriteByte('"')
	}
}

// writeText writes already escaped text, turning spaces into &nbsp;, other
// non-newline whitespace into numeric references, and line breaks into <br />.
func writeText(sb *strings.Builder, escaped string) {
	for i := 0; i < len(escaped); {
		c := escaped[i]
		switch {
		case c == '\r':
			sb.WriteString("<br />")
			i++
			if i < len(escaped) && escaped[i] == '\n' {
				i++
			}
			continue
		case c == '\n':
			sb.WriteString("<br />")
			i++
			continue
		case c == ' ':
			sb.WriteString("&nbsp;")
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(escaped[i:])
		if unicode.IsSpace(r) {
			sb.WriteString("&#")
			sb.WriteString(strconv.Itoa(int(r)))
			sb.WriteByte(';')
		} else {
			sb.WriteString(escaped[i : i+size])
		}
		i += size
	}
}
