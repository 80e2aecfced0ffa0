package bbcode

import (
	"regexp"
	"strings"
)

// TokenType represents the type of a scanned token
type TokenType int

const (
	TokenText TokenType = iota
	TokenOpen
	TokenClose
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenOpen:
		return "open"
	case TokenClose:
		return "close"
	default:
		return "unknown"
	}
}

// Token is one step of the scanner: a literal run or a tag marker.
// Start and End are byte offsets into the scanned source; Raw is the source
// text between them.
type Token struct {
	Type  TokenType
	Start int
	End   int
	Raw   string
	// Name is the tag name for open and close tokens.
	Name string
	// Default is the value written directly after the name, as in [size=3].
	Default    string
	HasDefault bool
	// RawAttrs is the unparsed key=value list of an open tag.
	RawAttrs string
}

var (
	// tagRegex is anchored; the scanner positions it on each candidate '['.
	tagRegex = regexp.MustCompile(`^(?:\[([^/\[\]\n\r\s=]+)(?:=([^\[\]\n\r]+))?((?:\s+[^/\[\]\n\r\s=]+=[^\[\]\n\r\s]+)*)\]|\[/([^/\[\]\n\r\s=]+)\])`)

	attrRegex = regexp.MustCompile(`([^/\[\]\n\r\s=]+)=([^\[\]\n\r\s]+)`)

	newlineRegex = regexp.MustCompile(`^(?:\r\n|\r|\n)`)
)

// Attrs parses the attributes of an open tag. The default value is stored
// under the tag name first so an explicit attribute of the same name wins.
func (t Token) Attrs() Attrs {
	attrs := Attrs{}
	if t.Type != TokenOpen {
		return attrs
	}
	if t.HasDefault {
		attrs[t.Name] = t.Default
	}
	for key, value := range parseAttrList(t.RawAttrs) {
		attrs[key] = value
	}
	return attrs
}

// parseAttrList splits on whitespace and keeps the pieces that look like
// key=value. Everything else is dropped.
func parseAttrList(raw string) map[string]string {
	result := make(map[string]string)
	for _, piece := range strings.Fields(raw) {
		m := attrRegex.FindStringSubmatch(piece)
		if m == nil {
			continue
		}
		result[m[1]] = m[2]
	}
	return result
}

// Scanner walks a source string with an explicit cursor, yielding literal runs
// and tag markers in order.
type Scanner struct {
	src     string
	pos     int
	pending *Token
}

// NewScanner creates a scanner positioned at the start of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Pos returns the cursor's byte offset.
func (s *Scanner) Pos() int {
	return s.pos
}

// Next returns the next token. Literal text before a tag is returned as its own
// TokenText first. The second result is false once the input is exhausted.
func (s *Scanner) Next() (Token, bool) {
	if s.pending != nil {
		tok := *s.pending
		s.pending = nil
		s.pos = tok.End
		return tok, true
	}
	if s.pos >= len(s.src) {
		return Token{}, false
	}

	tag, found := s.findTag(s.pos)
	if !found {
		tok := s.text(s.pos, len(s.src))
		s.pos = len(s.src)
		return tok, true
	}
	if tag.Start > s.pos {
		tok := s.text(s.pos, tag.Start)
		s.pending = &tag
		s.pos = tag.Start
		return tok, true
	}
	s.pos = tag.End
	return tag, true
}

// SkipNewline consumes a single CRLF, CR or LF if it sits directly at the
// cursor. It must not be called while a tag is pending.
func (s *Scanner) SkipNewline() bool {
	if s.pending != nil {
		return false
	}
	loc := newlineRegex.FindStringIndex(s.src[s.pos:])
	if loc == nil {
		return false
	}
	s.pos += loc[1]
	return true
}

func (s *Scanner) text(start, end int) Token {
	return Token{
		Type:  TokenText,
		Start: start,
		End:   end,
		Raw:   s.src[start:end],
	}
}

// findTag tries the anchored pattern at every '[' from the given offset and
// returns the first match.
func (s *Scanner) findTag(from int) (Token, bool) {
	for from < len(s.src) {
		i := strings.IndexByte(s.src[from:], '[')
		if i < 0 {
			return Token{}, false
		}
		at := from + i
		if tok, ok := s.matchAt(at); ok {
			return tok, true
		}
		from = at + 1
	}
	return Token{}, false
}

func (s *Scanner) matchAt(at int) (Token, bool) {
	m := tagRegex.FindStringSubmatchIndex(s.src[at:])
	if m == nil {
		return Token{}, false
	}
	rest := s.src[at:]
	tok := Token{
		Start: at,
		End:   at + m[1],
		Raw:   rest[m[0]:m[1]],
	}
	if m[8] >= 0 {
		tok.Type = TokenClose
		tok.Name = rest[m[8]:m[9]]
		return tok, true
	}
	tok.Type = TokenOpen
	tok.Name = rest[m[2]:m[3]]
	if m[4] >= 0 {
		tok.Default = rest[m[4]:m[5]]
		tok.HasDefault = true
	}
	if m[6] >= 0 {
		tok.RawAttrs = rest[m[6]:m[7]]
	}
	return tok, true
}

// Tokenize scans the whole input without applying any tree-building rules.
// Useful for debugging and analysis.
func Tokenize(input string) []Token {
	var tokens []Token

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithField("input_length", len(input)).Debug("Starting tokenization")
	}

	sc := NewScanner(input)
	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}

	if logger.IsDebugMode() {
		logger.WithField("token_count", len(tokens)).Debug("Tokenization complete")
	}

	return tokens
}
