package components

import (
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/transform"
)

// SanitizedHTML renders raw HTML found in documents after stripping anything a
// user-generated-content policy does not allow.
type SanitizedHTML struct {
	policy *bluemonday.Policy
}

// NewSanitizedHTML returns an HTML component using bluemonday's UGC policy.
func NewSanitizedHTML() *SanitizedHTML {
	return &SanitizedHTML{policy: bluemonday.UGCPolicy()}
}

// Render sanitizes the content attribute. When the descriptor has children
// (an inline element whose tags enclose Markdown) and the sanitized content is
// a single empty element, the children are rendered inside it; when the policy
// drops the element, the children are kept without it.
func (s *SanitizedHTML) Render(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	clean := s.policy.Sanitize(stringAttr(d, "content"))
	if clean == "" {
		return children, nil
	}
	nodes, err := fragment(clean)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nodes, nil
	}
	if len(nodes) == 1 && nodes[0].Type == html.ElementNode && nodes[0].FirstChild == nil {
		return one(appendAll(nodes[0], children))
	}
	return append(nodes, children...), nil
}
