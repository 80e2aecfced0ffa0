// Package bbcode renders BBCode markup into HTML, with a small template layer
// for variable substitution, conditionals and iteration.
//
// Rendering happens in two steps. Parse turns source text into a forest of
// TextNode and TagNode values; Render walks the forest and writes HTML. Both
// steps are total: malformed markup degrades to literal text and no input
// makes either of them fail.
//
// # Quick Start
//
//	html := bbcode.ToHTML("[b]Hello[/b], [var=name]!", bbcode.Params{
//	    "name": bbcode.StringValue("world"),
//	})
//	// <strong>Hello</strong>,&nbsp;world!
//
// A forest can be parsed once and rendered many times:
//
//	doc := bbcode.Prepare(source)
//	for _, p := range snapshots {
//	    fmt.Println(doc.Render(p))
//	}
//
// # Tags
//
// Formatting:
//
//	[b] [i] [u] [s] [sub] [sup]      - Emphasis
//	[color=red] [size=3] [font=serif] - Inline styles
//	[left] [center] [right] [justify] - Alignment blocks
//	[ul] [ol] [li]                    - Lists
//	[table] [tr] [td colspan=2]       - Tables
//	[hr]                              - Horizontal rule
//	[url=https://example.com]...[/url] - Links
//	[img=100x50]src[/img]             - Images
//
// Templating:
//
//	[var=name]                        - Value of params["name"]
//	[foreach=items]...[/foreach]      - Children once per record in params["items"]
//	[cond=flag]...[/cond]             - Children when params["flag"] is truthy
//	[cond not=flag]...[/cond]         - Children when params["flag"] is falsy
//
// # Structured output
//
// RenderNodes produces golang.org/x/net/html nodes instead of a string, for
// hosts that map output onto their own element model.
//
// # Engine
//
// An Engine adds a parsed-document cache, Prometheus metrics and logging:
//
//	registry := prometheus.NewRegistry()
//	engine := bbcode.New(
//	    bbcode.WithCache(500),
//	    bbcode.WithMetrics(bbcode.NewMetrics("bbcode", registry)),
//	)
//	out := engine.ToHTML(source, params)
//
// # Configuration
//
// Engines read their defaults from the global Config, which is populated from
// BBCODE_* environment variables or a YAML file via LoadConfig.
package bbcode
