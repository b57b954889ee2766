package render

import (
	"bytes"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

// Renderer renders descriptor trees. It performs no I/O and is safe for
// concurrent use.
type Renderer struct {
	registry *Registry
}

// NewRenderer returns a renderer backed by reg.
func NewRenderer(reg *Registry) *Renderer {
	return &Renderer{registry: reg}
}

// Registry returns the registry the renderer resolves components from.
func (r *Renderer) Registry() *Registry { return r.registry }

// Render produces the HTML nodes for root.
func (r *Renderer) Render(root *transform.Descriptor) ([]*html.Node, error) {
	if root == nil {
		return nil, nil
	}
	return r.render(root)
}

func (r *Renderer) render(d *transform.Descriptor) ([]*html.Node, error) {
	if d.IsText() {
		return []*html.Node{textNode(d.Text)}, nil
	}

	children := make([]*html.Node, 0, len(d.Children))
	for _, c := range d.Children {
		nodes, err := r.render(c)
		if err != nil {
			return nil, err
		}
		children = append(children, nodes...)
	}

	if d.IsLiteral() {
		out := make([]*html.Node, 0, len(children)+2)
		if d.Text != "" {
			out = append(out, textNode(d.Text))
		}
		out = append(out, children...)
		if d.Closing != "" {
			out = append(out, textNode(d.Closing))
		}
		return out, nil
	}

	comp, ok := r.registry.Lookup(d.Component)
	if !ok {
		return nil, unregistered(d.Component)
	}
	nodes, err := comp.Render(d, children)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "render component").
			WithContext("component", d.Component).
			Build()
	}
	return nodes, nil
}

// RenderHTML renders root and serializes the result.
func (r *Renderer) RenderHTML(root *transform.Descriptor) (string, error) {
	nodes, err := r.Render(root)
	if err != nil {
		return "", err
	}
	return Serialize(nodes)
}

// Serialize writes nodes as HTML.
func Serialize(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", errors.WrapError(err, errors.CategoryRender, "serialize html").Build()
		}
	}
	return buf.String(), nil
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
