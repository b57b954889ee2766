package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func inlineHTML(content string, children ...*Node) *Node {
	return &Node{Kind: KindHTML, Content: content, Children: children}
}

func TestParse_InlineHTML_GroupsEnclosedMarkdown(t *testing.T) {
	root := mustParse(t, "Press <kbd>Ctrl</kbd>+<kbd>C</kbd>, then <span>*go*</span>.\n")

	want := []*Node{para(
		text("Press "),
		inlineHTML("<kbd></kbd>", text("Ctrl")),
		text("+"),
		inlineHTML("<kbd></kbd>", text("C")),
		text(", then "),
		inlineHTML("<span></span>", &Node{Kind: KindEmphasis, Children: []*Node{text("go")}}),
		text("."),
	)}
	assert.Empty(t, cmp.Diff(want, root.Children))
}

func TestParse_InlineHTML_NestedSameName(t *testing.T) {
	root := mustParse(t, "<span>a <span>b</span> c</span>\n")

	want := []*Node{para(
		inlineHTML("<span></span>",
			text("a "),
			inlineHTML("<span></span>", text("b")),
			text(" c"),
		),
	)}
	assert.Empty(t, cmp.Diff(want, root.Children))
}

func TestParse_InlineHTML_UnpairedTagsStayAlone(t *testing.T) {
	root := mustParse(t, "x <span>y<br> z\n")

	want := []*Node{para(
		text("x "),
		inlineHTML("<span>"),
		text("y"),
		inlineHTML("<br>"),
		text(" z"),
	)}
	assert.Empty(t, cmp.Diff(want, root.Children))
}

func TestOpeningTagName(t *testing.T) {
	tests := []struct {
		in   string
		name string
		ok   bool
	}{
		{`<kbd>`, "kbd", true},
		{`<SPAN class="x">`, "span", true},
		{`<br>`, "", false},
		{`<span/>`, "", false},
		{`</span>`, "", false},
		{`<!-- c -->`, "", false},
	}
	for _, tt := range tests {
		name, ok := openingTagName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
	}
	assert.Equal(t, "span", closingTagName("</SPAN >"))
	assert.Empty(t, closingTagName("<span>"))
}
