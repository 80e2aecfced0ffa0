package bbcode

import (
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		params Params
		want   string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "hello", want: "hello"},
		{name: "spaces", input: "a b", want: "a&nbsp;b"},
		{name: "tab", input: "a\tb", want: "a&#9;b"},
		{name: "newlines", input: "a\nb\r\nc\rd", want: "a<br />b<br />c<br />d"},
		{name: "escaped text", input: `<a href="x">&amp;`, want: "&lt;a&nbsp;href=&quot;x&quot;&gt;&amp;"},
		{name: "bold", input: "[b]x[/b]", want: "<strong>x</strong>"},
		{name: "italic", input: "[i]x[/i]", want: "<i>x</i>"},
		{name: "underline", input: "[u]x[/u]", want: "<u>x</u>"},
		{name: "strike", input: "[s]x[/s]", want: "<strike>x</strike>"},
		{name: "sub and sup", input: "[sub]1[/sub][sup]2[/sup]", want: "<sub>1</sub><sup>2</sup>"},
		{name: "color", input: "[color=red]x[/color]", want: `<span style="color:red;">x</span>`},
		{name: "color without value", input: "[color]x[/color]", want: "<span>x</span>"},
		{name: "size named", input: "[size=3]x[/size]", want: `<span style="font-size:small;">x</span>`},
		{name: "size pixels", input: "[size=10]x[/size]", want: `<span style="font-size:10px;">x</span>`},
		{name: "size verbatim", input: "[size=larger]x[/size]", want: `<span style="font-size:larger;">x</span>`},
		{name: "font", input: "[font=serif]x[/font]", want: `<span style="font-family:serif;">x</span>`},
		{name: "center", input: "[center]x[/center]", want: `<div style="text-align:center;">x</div>`},
		{name: "justify", input: "[justify]x[/justify]", want: `<div style="text-align:justify;">x</div>`},
		{
			name:  "list",
			input: "[ul]\n[li]a[/li]\n[li]b[/li]\n[/ul]",
			want:  `<ul style="margin:0;"><li>a</li><li>b</li></ul>`,
		},
		{name: "ordered list", input: "[ol][li]a[/li][/ol]", want: `<ol style="margin:0;"><li>a</li></ol>`},
		{
			name:  "table",
			input: "[table width=100%][tr][td]a[/td][/tr][/table]",
			want:  `<table style="border-collapse:collapse;width:100%;"><tr><td style="border:1px solid gray;">a</td></tr></table>`,
		},
		{
			name:  "table overrides default",
			input: "[table border-collapse=separate]x[/table]",
			want:  `<table style="border-collapse:separate;">x</table>`,
		},
		{
			name:  "row styles",
			input: "[tr background=red]x[/tr]",
			want:  `<tr style="background:red;">x</tr>`,
		},
		{
			name:  "cell spans are attributes",
			input: "[td colspan=2 rowspan=3 padding=4px]x[/td]",
			want:  `<td style="border:1px solid gray;padding:4px;" colspan="2" rowspan="3">x</td>`,
		},
		{
			name:  "cell border override",
			input: "[td border=none]x[/td]",
			want:  `<td style="border:none;">x</td>`,
		},
		{name: "rule", input: "a[hr]\nb", want: "a<hr />b"},
		{name: "url", input: "[url=http://example.com]x[/url]", want: `<a href="http://example.com">x</a>`},
		{name: "url attribute escaped", input: `[url=a"b]x[/url]`, want: `<a href="a&quot;b">x</a>`},
		{name: "image source", input: "[img]a.png[/img]", want: `<img src="a.png" />`},
		{name: "image dimensions", input: "[img=100x50]a.png[/img]", want: `<img style="width:100px;height:50px;" src="a.png" />`},
		{name: "image width and height", input: "[img width=10 height=50%]a.png[/img]", want: `<img style="width:10px;height:50%;" src="a.png" />`},
		{
			name:  "image dimensions win",
			input: "[img=100x50 width=10]a.png[/img]",
			want:  `<img style="width:100px;height:50px;" src="a.png" />`,
		},
		{name: "image without text child", input: "[img][b]x[/b][/img]", want: `<img src="" />`},
		{name: "unknown tag literal", input: "[foo]x[/foo]", want: "&#91;foo&#93;x&#91;/foo&#93;"},
		{name: "mismatched close", input: "[b]x[/i]", want: "<strong>x&#91;/i&#93;</strong>"},
		{
			name:   "var",
			input:  "Hi [var=name]!",
			params: Params{"name": StringValue("Ann")},
			want:   "Hi&nbsp;Ann!",
		},
		{
			name:   "var number",
			input:  "[var=n]",
			params: Params{"n": NumberValue(2.5)},
			want:   "2.5",
		},
		{name: "var missing", input: "[[var=nope]]", want: "&#91;&#93;"},
		{
			name:   "var output is escaped",
			input:  "[var=x]",
			params: Params{"x": StringValue("<b> & c")},
			want:   "&lt;b&gt;&nbsp;&amp;&nbsp;c",
		},
		{
			name:   "var text is not markup",
			input:  "[var=x]",
			params: Params{"x": StringValue("[b]y[/b]")},
			want:   "&#91;b&#93;y&#91;/b&#93;",
		},
		{
			name:  "foreach",
			input: "[foreach=items][var=name][/foreach]",
			params: Params{"items": ListValue{
				{"name": StringValue("a")},
				{"name": StringValue("b")},
			}},
			want: "ab",
		},
		{
			name:  "foreach shadows outer keys",
			input: "[foreach=items][var=name]-[var=sep][/foreach][var=name]",
			params: Params{
				"name": StringValue("outer"),
				"sep":  StringValue("|"),
				"items": ListValue{
					{"name": StringValue("a")},
					{"name": StringValue("b"), "sep": StringValue("!")},
				},
			},
			want: "a-|b-!outer",
		},
		{
			name:  "nested foreach",
			input: "[foreach=rows][foreach=cells][var=row][var=v][/foreach][/foreach]",
			params: Params{"rows": ListValue{
				{"row": StringValue("1"), "cells": ListValue{{"v": StringValue("a")}, {"v": StringValue("b")}}},
				{"row": StringValue("2"), "cells": ListValue{{"v": StringValue("c")}}},
			}},
			want: "1a1b2c",
		},
		{name: "foreach missing", input: "[foreach=items]x[/foreach]", want: ""},
		{
			name:   "foreach over scalar",
			input:  "[foreach=items]x[/foreach]",
			params: Params{"items": StringValue("abc")},
			want:   "",
		},
		{
			name:   "foreach over empty list",
			input:  "[foreach=items]x[/foreach]",
			params: Params{"items": ListValue{}},
			want:   "",
		},
		{
			name:   "cond true",
			input:  "[cond=flag]yes[/cond]",
			params: Params{"flag": BoolValue(true)},
			want:   "yes",
		},
		{
			name:   "cond false",
			input:  "[cond=flag]yes[/cond]",
			params: Params{"flag": BoolValue(false)},
			want:   "",
		},
		{
			name:   "cond not with false",
			input:  "[cond not=flag]yes[/cond]",
			params: Params{"flag": BoolValue(false)},
			want:   "yes",
		},
		{
			name:   "cond not with true",
			input:  "[cond not=flag]yes[/cond]",
			params: Params{"flag": BoolValue(true)},
			want:   "",
		},
		{name: "cond not with missing key", input: "[cond not=flag]yes[/cond]", want: "yes"},
		{name: "cond without attributes", input: "[cond]yes[/cond]", want: ""},
		{
			name:   "cond default swallows trailing attributes",
			input:  "[cond=a not=b]yes[/cond]",
			params: Params{"a": BoolValue(false), "b": BoolValue(false)},
			want:   "",
		},
		{
			name:   "cond list is truthy",
			input:  "[cond=items]yes[/cond]",
			params: Params{"items": ListValue{}},
			want:   "yes",
		},
		{
			name:  "cond inside foreach",
			input: "[foreach=items][cond=on][var=name][/cond][/foreach]",
			params: Params{"items": ListValue{
				{"name": StringValue("a"), "on": BoolValue(true)},
				{"name": StringValue("b"), "on": BoolValue(false)},
				{"name": StringValue("c"), "on": NumberValue(1)},
			}},
			want: "ac",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToHTML(tt.input, tt.params)
			if got != tt.want {
				t.Errorf("ToHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderCondPrecedence(t *testing.T) {
	// Both attributes present: the cond check runs first and not is only
	// consulted when it fails.
	nodes := []Node{NewTagNode("cond", Attrs{"cond": "a", "not": "b"}, text("yes"))}

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{name: "cond true", params: Params{"a": BoolValue(true), "b": BoolValue(true)}, want: "yes"},
		{name: "cond false not false", params: Params{"a": BoolValue(false)}, want: "yes"},
		{name: "both fail", params: Params{"a": BoolValue(false), "b": BoolValue(true)}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(nodes, tt.params); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderImagePriority(t *testing.T) {
	nodes := []Node{
		NewTagNode("img", Attrs{"img": "100x50", "width": "10", "height": "20"}, text("a.png")),
		NewTagNode("img", Attrs{"img": "big", "width": "10"}, text("b.png")),
	}
	want := `<img style="width:100px;height:50px;" src="a.png" /><img src="b.png" />`

	if got := Render(nodes, nil); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderGenericTag(t *testing.T) {
	nodes := []Node{
		&TagNode{Tag: "custom", Kind: TagGeneric, Children: []Node{text("inner")}},
	}
	if got := Render(nodes, nil); got != "inner" {
		t.Errorf("Render() = %q, want %q", got, "inner")
	}
}

func TestRenderDoesNotModifyParams(t *testing.T) {
	params := Params{
		"name":  StringValue("outer"),
		"items": ListValue{{"name": StringValue("a"), "extra": BoolValue(true)}},
	}
	nodes := Parse("[foreach=items][var=name][/foreach]")

	Render(nodes, params)

	if len(params) != 2 || params["name"] != StringValue("outer") {
		t.Errorf("params modified: %v", params)
	}
}

func TestRenderDeterministic(t *testing.T) {
	nodes := Parse("[table a=1 b=2 c=3][tr][td x=1 y=2 colspan=2]z[/td][/tr][/table]")
	first := Render(nodes, nil)
	for i := 0; i < 20; i++ {
		if got := Render(nodes, nil); got != first {
			t.Fatalf("Render() = %q, first render was %q", got, first)
		}
	}
}
