// Package components provides the standard component implementations for the
// default schema.
package components

import (
	"strconv"
	"strings"

	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docsite/internal/markup"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/schema"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

// Registry returns a registry with every component the default schema uses.
func Registry() *render.Registry {
	return render.NewRegistry(map[string]render.Component{
		schema.Document:      wrapper(atom.Article, "doc-content"),
		schema.Paragraph:     wrapper(atom.P, ""),
		schema.Blockquote:    wrapper(atom.Blockquote, ""),
		schema.Emphasis:      wrapper(atom.Em, ""),
		schema.Strong:        wrapper(atom.Strong, ""),
		schema.Strikethrough: wrapper(atom.Del, ""),
		schema.ListItem:      wrapper(atom.Li, ""),
		schema.TableHead:     wrapper(atom.Thead, ""),
		schema.Row:           wrapper(atom.Tr, ""),
		schema.Divider:       void(atom.Hr),
		schema.LineBreak:     void(atom.Br),
		schema.Heading:       render.ComponentFunc(heading),
		schema.Link:          render.ComponentFunc(link),
		schema.Image:         render.ComponentFunc(image),
		schema.List:          render.ComponentFunc(list),
		schema.Table:         render.ComponentFunc(table),
		schema.Cell:          render.ComponentFunc(cell),
		schema.Code:          render.ComponentFunc(code),
		schema.CodeBlock:     NewCodeBlock(DefaultCodeStyle),
		schema.HTML:          NewSanitizedHTML(),
		schema.Callout:       render.ComponentFunc(callout),
		schema.Card:          render.ComponentFunc(card),
	})
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func appendAll(parent *html.Node, children []*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func one(n *html.Node) ([]*html.Node, error) {
	return []*html.Node{n}, nil
}

func wrapper(a atom.Atom, class string) render.Component {
	return render.ComponentFunc(func(_ *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
		n := element(a)
		if class != "" {
			n.Attr = append(n.Attr, attr("class", class))
		}
		return one(appendAll(n, children))
	})
}

func void(a atom.Atom) render.Component {
	return render.ComponentFunc(func(*transform.Descriptor, []*html.Node) ([]*html.Node, error) {
		return one(element(a))
	})
}

func stringAttr(d *transform.Descriptor, name string) string {
	v, ok := d.Attr(name)
	if !ok || v.Type != markup.TypeString {
		return ""
	}
	return v.Str
}

func numberAttr(d *transform.Descriptor, name string) (float64, bool) {
	v, ok := d.Attr(name)
	if !ok || v.Type != markup.TypeNumber {
		return 0, false
	}
	return v.Num, true
}

func boolAttr(d *transform.Descriptor, name string) bool {
	v, ok := d.Attr(name)
	return ok && v.Type == markup.TypeBoolean && v.Bool
}

// safeURL returns u with the characters browsers ignore in URLs removed, or
// "#" when its scheme is not an allowed one. Relative references pass.
func safeURL(u string) string {
	return checkURL(u, false)
}

// safeImageURL is safeURL that additionally accepts inline image data.
func safeImageURL(u string) string {
	return checkURL(u, true)
}

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

func checkURL(u string, images bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, u)
	cleaned = strings.TrimLeftFunc(cleaned, func(r rune) bool { return r <= ' ' })

	scheme, ok := urlScheme(cleaned)
	if !ok {
		return cleaned
	}
	if gmhtml.IsDangerousURL([]byte(strings.ToLower(cleaned))) {
		return "#"
	}
	if allowedSchemes[scheme] || (images && scheme == "data") {
		return cleaned
	}
	return "#"
}

// urlScheme returns the lowercased scheme of u, if u has one.
func urlScheme(u string) (string, bool) {
	for i := 0; i < len(u); i++ {
		c := u[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		case c == ':' && i > 0:
			return strings.ToLower(u[:i]), true
		default:
			return "", false
		}
	}
	return "", false
}

func heading(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	level, _ := numberAttr(d, "level")
	lvl := int(level)
	lvl = min(max(lvl, 1), 6)
	a := atom.Lookup([]byte("h" + strconv.Itoa(lvl)))
	n := element(a)
	if id := stringAttr(d, "id"); id != "" {
		n.Attr = append(n.Attr, attr("id", id))
	}
	return one(appendAll(n, children))
}

func link(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	n := element(atom.A, attr("href", safeURL(stringAttr(d, "href"))))
	if title := stringAttr(d, "title"); title != "" {
		n.Attr = append(n.Attr, attr("title", title))
	}
	return one(appendAll(n, children))
}

func image(d *transform.Descriptor, _ []*html.Node) ([]*html.Node, error) {
	n := element(atom.Img,
		attr("src", safeImageURL(stringAttr(d, "src"))),
		attr("alt", stringAttr(d, "alt")),
	)
	if title := stringAttr(d, "title"); title != "" {
		n.Attr = append(n.Attr, attr("title", title))
	}
	return one(n)
}

func list(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	if !boolAttr(d, "ordered") {
		return one(appendAll(element(atom.Ul), children))
	}
	n := element(atom.Ol)
	if start, ok := numberAttr(d, "start"); ok && start != 1 {
		n.Attr = append(n.Attr, attr("start", strconv.Itoa(int(start))))
	}
	return one(appendAll(n, children))
}

// table places rows that are not part of the head into a tbody.
func table(_ *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	n := element(atom.Table)
	var body *html.Node
	for _, c := range children {
		if c.DataAtom == atom.Thead {
			n.AppendChild(c)
			continue
		}
		if body == nil {
			body = element(atom.Tbody)
			n.AppendChild(body)
		}
		body.AppendChild(c)
	}
	return one(n)
}

func cell(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	a := atom.Td
	if boolAttr(d, "header") {
		a = atom.Th
	}
	n := element(a)
	if align := stringAttr(d, "align"); align != "" {
		n.Attr = append(n.Attr, attr("style", "text-align:"+align))
	}
	return one(appendAll(n, children))
}

func code(d *transform.Descriptor, _ []*html.Node) ([]*html.Node, error) {
	return one(appendAll(element(atom.Code), []*html.Node{text(stringAttr(d, "content"))}))
}
