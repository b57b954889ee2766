package components

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docsite/internal/transform"
)

func callout(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	kind := stringAttr(d, "type")
	if kind == "" {
		kind = "info"
	}
	n := element(atom.Aside,
		attr("class", "callout callout-"+kind),
		attr("role", "note"),
	)
	if title := stringAttr(d, "title"); title != "" {
		n.AppendChild(appendAll(element(atom.P, attr("class", "callout-title")), []*html.Node{text(title)}))
	}
	return one(appendAll(n, children))
}

func card(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	n := element(atom.Div, attr("class", "card"))

	header := element(atom.H3, attr("class", "card-title"))
	if icon := stringAttr(d, "icon"); icon != "" {
		header.AppendChild(element(atom.Span, attr("class", "card-icon"), attr("data-icon", icon)))
	}
	title := text(stringAttr(d, "title"))
	if href := stringAttr(d, "href"); href != "" {
		header.AppendChild(appendAll(element(atom.A, attr("href", safeURL(href))), []*html.Node{title}))
	} else {
		header.AppendChild(title)
	}
	n.AppendChild(header)

	if len(children) > 0 {
		n.AppendChild(appendAll(element(atom.Div, attr("class", "card-body")), children))
	}
	return one(n)
}
