package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func text(s string) *Node { return &Node{Kind: KindText, Content: s} }

func para(children ...*Node) *Node { return &Node{Kind: KindParagraph, Children: children} }

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	root, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func TestParse_EmptyInput_ReturnsSentinel(t *testing.T) {
	root, err := NewParser().Parse(nil)
	require.NoError(t, err)
	assert.True(t, IsEmpty(root))

	root, err = NewParser().Parse([]byte{})
	require.NoError(t, err)
	assert.True(t, IsEmpty(root))
}

func TestParse_HeadingAndParagraph(t *testing.T) {
	root := mustParse(t, "# Welcome\n\nHello.")

	want := &Node{Kind: KindDocument, Children: []*Node{
		{
			Kind: KindHeading,
			Attributes: map[string]Value{
				"level": NumberValue(1),
				"id":    StringValue("welcome"),
			},
			Children: []*Node{text("Welcome")},
		},
		para(text("Hello.")),
	}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParse_IsDeterministic(t *testing.T) {
	src := "---\ntitle: Guide\n---\n# Guide\n\n{% callout type=\"warning\" %}\nMind the *gap*.\n{% /callout %}\n\n- one\n- two\n\n| a | b |\n|---|:-:|\n| 1 | 2 |\n"
	p := NewParser()

	a, err := p.Parse([]byte(src))
	require.NoError(t, err)
	b, err := p.Parse([]byte(src))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Empty(t, cmp.Diff(a, b))
}

func TestParse_BinaryInput_IsParseError(t *testing.T) {
	tests := map[string][]byte{
		"invalid utf-8": {0xff, 0xfe, 0xfd},
		"nul byte":      []byte("# Title\x00\n"),
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			root, err := NewParser().Parse(src)
			require.Error(t, err)
			assert.Nil(t, root)
			assert.Equal(t, errors.CategoryParse, errors.GetCategory(err))
		})
	}
}

func TestParse_Frontmatter_StoredOnRoot(t *testing.T) {
	root := mustParse(t, "---\ntitle: Install\n---\n# Install\n")

	fm, ok := root.Attr(FrontmatterAttribute)
	require.True(t, ok)
	assert.Equal(t, "title: Install\n", fm.Str)
	require.Len(t, root.Children, 1)
	assert.Equal(t, KindHeading, root.Children[0].Kind)
}

func TestParse_UnclosedFrontmatter_TreatedAsBody(t *testing.T) {
	root := mustParse(t, "---\ntitle: Install\n")

	_, ok := root.Attr(FrontmatterAttribute)
	assert.False(t, ok)
	assert.NotEmpty(t, root.Children)
}

func TestParse_Tag_WithAttributesAndBody(t *testing.T) {
	root := mustParse(t, "{% callout type=\"warning\" title=\"Careful\" %}\nBe careful.\n{% /callout %}\n")

	want := []*Node{{
		Kind: KindTag,
		Name: "callout",
		Attributes: map[string]Value{
			"type":  StringValue("warning"),
			"title": StringValue("Careful"),
		},
		Children: []*Node{para(text("Be careful."))},
	}}
	if diff := cmp.Diff(want, root.Children); diff != "" {
		t.Fatalf("unexpected children (-want +got):\n%s", diff)
	}
}

func TestParse_Tag_Nested(t *testing.T) {
	src := "{% card title=\"Outer\" %}\n{% callout %}\nInner\n{% /callout %}\n{% card title=\"Deep\" %}\nDeeper\n{% /card %}\n{% /card %}\n"
	root := mustParse(t, src)

	require.Len(t, root.Children, 1)
	outer := root.Children[0]
	assert.Equal(t, "card", outer.Name)
	require.Len(t, outer.Children, 2)
	assert.Equal(t, "callout", outer.Children[0].Name)
	assert.Equal(t, "card", outer.Children[1].Name)
	assert.Equal(t, "Deeper", outer.Children[1].TextContent())
}

func TestParse_Tag_SelfClosing(t *testing.T) {
	root := mustParse(t, "Before\n\n{% card title=\"A\" count=3 open=true /%}\n\nAfter\n")

	require.Len(t, root.Children, 3)
	tag := root.Children[1]
	assert.Equal(t, KindTag, tag.Kind)
	assert.Equal(t, "card", tag.Name)
	assert.Empty(t, tag.Children)
	assert.Equal(t, NumberValue(3), tag.Attributes["count"])
	assert.Equal(t, BoolValue(true), tag.Attributes["open"])
}

func TestParse_MalformedTags_BecomeRaw(t *testing.T) {
	tests := []struct {
		name string
		src  string
		raw  string
	}{
		{"unterminated", "{% callout %}\nBody\n", "{% callout %}"},
		{"stray close", "{% /callout %}\n", "{% /callout %}"},
		{"bad attributes", "{% callout type %}\nBody\n{% /callout %}\n", "{% callout type %}\nBody\n{% /callout %}"},
		{"unterminated string", "{% callout title=\"oops /%}\n", "{% callout title=\"oops /%}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.src)
			require.NotEmpty(t, root.Children)
			first := root.Children[0]
			assert.Equal(t, KindRaw, first.Kind)
			assert.Equal(t, tt.raw, first.Content)
		})
	}
}

func TestParse_TagInsideFence_IsCode(t *testing.T) {
	root := mustParse(t, "```markdown\n{% callout %}\n```\n")

	require.Len(t, root.Children, 1)
	fence := root.Children[0]
	assert.Equal(t, KindFence, fence.Kind)
	assert.Equal(t, StringValue("markdown"), fence.Attributes["language"])
	assert.Equal(t, "{% callout %}\n", fence.Content)
}

func TestParse_HeadingIDs_AreUnique(t *testing.T) {
	root := mustParse(t, "# Setup\n\n## Setup\n\n### Setup\n")

	var ids []string
	for _, n := range root.Children {
		ids = append(ids, n.Attributes["id"].Str)
	}
	assert.Equal(t, []string{"setup", "setup-1", "setup-2"}, ids)
}

func TestParse_InlineMarkup(t *testing.T) {
	root := mustParse(t, "Some *em* and **strong** and ~~gone~~ and `code` and [link](/docs \"Docs\").\n")

	require.Len(t, root.Children, 1)
	kinds := []Kind{}
	for _, n := range root.Children[0].Children {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []Kind{
		KindText, KindEmphasis, KindText, KindStrong, KindText, KindStrikethrough,
		KindText, KindCodeSpan, KindText, KindLink, KindText,
	}, kinds)

	link := root.Children[0].Children[9]
	assert.Equal(t, StringValue("/docs"), link.Attributes["href"])
	assert.Equal(t, StringValue("Docs"), link.Attributes["title"])
}

func TestParse_SoftBreak(t *testing.T) {
	root := mustParse(t, "one\ntwo\n")

	want := []*Node{para(text("one"), &Node{Kind: KindSoftBreak}, text("two"))}
	assert.Empty(t, cmp.Diff(want, root.Children))
}

func TestParse_ListsAndTables(t *testing.T) {
	root := mustParse(t, "3. three\n4. four\n\n| a | b |\n|---|:-:|\n| 1 | 2 |\n")

	require.Len(t, root.Children, 2)
	list := root.Children[0]
	assert.Equal(t, KindList, list.Kind)
	assert.Equal(t, BoolValue(true), list.Attributes["ordered"])
	assert.Equal(t, NumberValue(3), list.Attributes["start"])
	assert.Len(t, list.Children, 2)

	table := root.Children[1]
	assert.Equal(t, KindTable, table.Kind)
	require.Len(t, table.Children, 2)
	head := table.Children[0]
	assert.Equal(t, KindTableHead, head.Kind)
	require.Len(t, head.Children, 1)
	cells := head.Children[0].Children
	require.Len(t, cells, 2)
	assert.Equal(t, BoolValue(true), cells[0].Attributes["header"])
	assert.Equal(t, StringValue("center"), cells[1].Attributes["align"])
	assert.Equal(t, KindTableRow, table.Children[1].Kind)
}

func TestParse_Image(t *testing.T) {
	root := mustParse(t, "![Diagram](/img/d.png)\n")

	img := root.Children[0].Children[0]
	assert.Equal(t, KindImage, img.Kind)
	assert.Equal(t, StringValue("/img/d.png"), img.Attributes["src"])
	assert.Equal(t, StringValue("Diagram"), img.Attributes["alt"])
}

func TestParse_LinkDestinationAndTitle_AreDecoded(t *testing.T) {
	root := mustParse(t, "[a](/p?a=1&amp;b=2) [b](/p\\_q \"T &amp; U\")\n")

	inline := root.Children[0].Children
	require.Len(t, inline, 3)
	assert.Equal(t, StringValue("/p?a=1&b=2"), inline[0].Attributes["href"])
	assert.Equal(t, StringValue("/p_q"), inline[2].Attributes["href"])
	assert.Equal(t, StringValue("T & U"), inline[2].Attributes["title"])
}

func TestParse_ImageDestinationAndTitle_AreDecoded(t *testing.T) {
	root := mustParse(t, "![d](/img/a&amp;b.png \"A &#38; B\")\n")

	img := root.Children[0].Children[0]
	assert.Equal(t, KindImage, img.Kind)
	assert.Equal(t, StringValue("/img/a&b.png"), img.Attributes["src"])
	assert.Equal(t, StringValue("A & B"), img.Attributes["title"])
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Getting Started":     "getting-started",
		"  API -- Reference ": "api-reference",
		"What's new?":         "whats-new",
		"Ünïcode Title":       "ünïcode-title",
		"!!!":                 "section",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
