// Package transform resolves a parsed document against a tag schema, producing
// the component descriptor tree consumed by the renderer.
package transform

import "git.home.luguber.info/inful/docsite/internal/markup"

// Reserved component names for descriptors that carry text instead of a
// schema-declared component.
const (
	// TextComponent marks plain text.
	TextComponent = "#text"
	// LiteralComponent marks source passed through verbatim.
	LiteralComponent = "#literal"
)

// Descriptor is a renderable unit: a component name, its coerced attributes
// and its children.
type Descriptor struct {
	Component  string
	Attributes map[string]markup.Value
	Children   []*Descriptor
	// Text is the content of text descriptors and the source of literal ones.
	Text string
	// Closing is the literal closing source emitted after the children of a
	// passed-through tag.
	Closing string
}

// IsText reports whether d is plain text.
func (d *Descriptor) IsText() bool { return d.Component == TextComponent }

// IsLiteral reports whether d is passed-through source.
func (d *Descriptor) IsLiteral() bool { return d.Component == LiteralComponent }

// Attr returns the named attribute.
func (d *Descriptor) Attr(name string) (markup.Value, bool) {
	v, ok := d.Attributes[name]
	return v, ok
}

// Walk calls fn for d and each descendant in depth-first order.
func (d *Descriptor) Walk(fn func(*Descriptor)) {
	if d == nil {
		return
	}
	fn(d)
	for _, c := range d.Children {
		c.Walk(fn)
	}
}
