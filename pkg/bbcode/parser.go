package bbcode

// arenaNode is the builder's flat representation of a node. Tag nodes refer to
// their children by arena index.
type arenaNode struct {
	text     string
	isTag    bool
	tag      string
	kind     TagKind
	attrs    Attrs
	children []int
}

// frame is an open container tag: its arena slot and the accumulator that was
// current when it opened.
type frame struct {
	tag    string
	node   int
	parent []int
}

// treeBuilder turns scanner output into a forest. The stack holds one frame per
// open container; acc collects the children of the innermost one.
type treeBuilder struct {
	scanner *Scanner
	arena   []arenaNode
	stack   []frame
	acc     []int
	logger  *Logger
}

// Parse builds the node forest for source. It never fails: unknown tags,
// mismatched closing tags and unclosed tags all degrade to literal text or
// implicit closes.
func Parse(source string) []Node {
	b := &treeBuilder{
		scanner: NewScanner(source),
		logger:  GetLogger(),
	}
	return b.build()
}

func (b *treeBuilder) build() []Node {
	for {
		tok, ok := b.scanner.Next()
		if !ok {
			break
		}
		switch tok.Type {
		case TokenText:
			b.appendText(tok.Raw)
		case TokenOpen:
			b.open(tok)
		case TokenClose:
			b.close(tok)
		}
	}

	if len(b.stack) > 0 && b.logger.IsDebugMode() {
		b.logger.WithField("open_tags", len(b.stack)).Debug("Closing unterminated tags at end of input")
	}
	for len(b.stack) > 0 {
		b.pop()
	}

	return b.materialize(b.acc)
}

func (b *treeBuilder) add(n arenaNode) int {
	b.arena = append(b.arena, n)
	idx := len(b.arena) - 1
	b.acc = append(b.acc, idx)
	return idx
}

func (b *treeBuilder) appendText(raw string) {
	if raw == "" {
		return
	}
	b.add(arenaNode{text: Unescape(raw)})
}

func (b *treeBuilder) open(tok Token) {
	spec, known := LookupTag(tok.Name)
	if !known {
		b.appendText(tok.Raw)
		return
	}

	idx := b.add(arenaNode{
		isTag: true,
		tag:   tok.Name,
		kind:  spec.Kind,
		attrs: tok.Attrs(),
	})

	if spec.SelfClosing {
		if !spec.BreakStart {
			b.scanner.SkipNewline()
		}
		return
	}

	b.stack = append(b.stack, frame{tag: tok.Name, node: idx, parent: b.acc})
	b.acc = nil
	if !spec.BreakAfter {
		b.scanner.SkipNewline()
	}
}

func (b *treeBuilder) close(tok Token) {
	spec, known := LookupTag(tok.Name)
	if !known {
		b.appendText(tok.Raw)
		return
	}
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].tag != tok.Name {
		b.appendText(tok.Raw)
		return
	}

	b.pop()
	if !spec.BreakAfter {
		b.scanner.SkipNewline()
	}
}

// pop closes the innermost frame, storing the accumulated children in its arena
// slot and restoring the parent accumulator.
func (b *treeBuilder) pop() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.arena[top.node].children = b.acc
	b.acc = top.parent
}

func (b *treeBuilder) materialize(indices []int) []Node {
	if len(indices) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(indices))
	for _, idx := range indices {
		n := b.arena[idx]
		if !n.isTag {
			nodes = append(nodes, &TextNode{Text: n.text})
			continue
		}
		nodes = append(nodes, &TagNode{
			Tag:      n.tag,
			Kind:     n.kind,
			Attrs:    n.attrs,
			Children: b.materialize(n.children),
		})
	}
	return nodes
}
