package components

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docsite/internal/transform"
)

// DefaultCodeStyle is the chroma style used for highlighted code.
const DefaultCodeStyle = "github"

// CodeBlock renders fenced code with syntax highlighting. Highlighting emits
// CSS classes; WriteCSS writes the matching stylesheet.
type CodeBlock struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewCodeBlock returns a CodeBlock using the named chroma style.
func NewCodeBlock(style string) *CodeBlock {
	return &CodeBlock{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// WriteCSS writes the stylesheet for the highlighting classes.
func (c *CodeBlock) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}

func (c *CodeBlock) Render(d *transform.Descriptor, _ []*html.Node) ([]*html.Node, error) {
	lang := strings.TrimSpace(stringAttr(d, "language"))
	content := stringAttr(d, "content")

	wrap := element(atom.Div, attr("class", "code-block"))
	if lang != "" {
		wrap.Attr = append(wrap.Attr, attr("data-language", lang))
	}

	lexer := lexers.Get(lang)
	if lang == "" || lexer == nil {
		pre := element(atom.Pre)
		pre.AppendChild(appendAll(element(atom.Code), []*html.Node{text(content)}))
		wrap.AppendChild(pre)
		return one(wrap)
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, content)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		return nil, err
	}
	nodes, err := fragment(buf.String())
	if err != nil {
		return nil, err
	}
	return one(appendAll(wrap, nodes))
}

// fragment parses an HTML snippet into detached nodes.
func fragment(s string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	return html.ParseFragment(strings.NewReader(s), ctx)
}
