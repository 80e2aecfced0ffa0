package bbcode

// TagKind identifies a known tag. The renderer switches on it exhaustively;
// TagGeneric is the fallback that renders children without a wrapper.
type TagKind int

const (
	TagGeneric TagKind = iota
	TagBold
	TagItalic
	TagUnderline
	TagStrike
	TagSub
	TagSup
	TagColor
	TagSize
	TagFont
	TagLeft
	TagCenter
	TagRight
	TagJustify
	TagUnorderedList
	TagOrderedList
	TagListItem
	TagTable
	TagTableRow
	TagTableCell
	TagRule
	TagURL
	TagImage
	TagVar
	TagForeach
	TagCond
)

var tagKindNames = map[TagKind]string{
	TagGeneric:       "generic",
	TagBold:          "b",
	TagItalic:        "i",
	TagUnderline:     "u",
	TagStrike:        "s",
	TagSub:           "sub",
	TagSup:           "sup",
	TagColor:         "color",
	TagSize:          "size",
	TagFont:          "font",
	TagLeft:          "left",
	TagCenter:        "center",
	TagRight:         "right",
	TagJustify:       "justify",
	TagUnorderedList: "ul",
	TagOrderedList:   "ol",
	TagListItem:      "li",
	TagTable:         "table",
	TagTableRow:      "tr",
	TagTableCell:     "td",
	TagRule:          "hr",
	TagURL:           "url",
	TagImage:         "img",
	TagVar:           "var",
	TagForeach:       "foreach",
	TagCond:          "cond",
}

func (k TagKind) String() string {
	if name, ok := tagKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TagSpec describes how the tree builder treats a known tag.
type TagSpec struct {
	Kind TagKind
	// BreakStart keeps a newline that directly follows a self-closing tag.
	BreakStart bool
	// BreakAfter keeps a newline that directly follows a container's opening
	// or closing tag.
	BreakAfter bool
	// SelfClosing tags have no children and no closing tag.
	SelfClosing bool
}

// inline tags keep the surrounding line structure untouched.
func inline(kind TagKind) TagSpec {
	return TagSpec{Kind: kind, BreakStart: true, BreakAfter: true}
}

var tagSpecs = map[string]TagSpec{
	"b":       inline(TagBold),
	"i":       inline(TagItalic),
	"u":       inline(TagUnderline),
	"s":       inline(TagStrike),
	"sub":     inline(TagSub),
	"sup":     inline(TagSup),
	"left":    inline(TagLeft),
	"center":  inline(TagCenter),
	"right":   inline(TagRight),
	"justify": inline(TagJustify),
	"font":    inline(TagFont),
	"size":    inline(TagSize),
	"color":   inline(TagColor),
	"url":     inline(TagURL),
	"ul":      {Kind: TagUnorderedList},
	"ol":      {Kind: TagOrderedList},
	"li":      {Kind: TagListItem},
	"table":   {Kind: TagTable},
	"tr":      {Kind: TagTableRow},
	"td":      {Kind: TagTableCell},
	"hr":      {Kind: TagRule, SelfClosing: true},
	"img":     {Kind: TagImage, BreakAfter: true},
	"var":     {Kind: TagVar, BreakStart: true, SelfClosing: true},
	"foreach": {Kind: TagForeach},
	"cond":    {Kind: TagCond},
}

// LookupTag returns the TagSpec for a tag name. Names are case sensitive.
func LookupTag(name string) (TagSpec, bool) {
	spec, ok := tagSpecs[name]
	return spec, ok
}

// KnownTags returns the names of all structural tags.
func KnownTags() []string {
	names := make([]string, 0, len(tagSpecs))
	for name := range tagSpecs {
		names = append(names, name)
	}
	return names
}
