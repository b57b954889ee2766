// Package frontmatter reads page metadata from the raw frontmatter block the
// markup parser leaves on a document root.
package frontmatter

import (
	"maps"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/markup"
)

const (
	keyTitle       = "title"
	keyDescription = "description"
)

// Frontmatter is the metadata declared by a single page. Title and Description
// are empty when the page does not set them; Extra holds every other key.
type Frontmatter struct {
	Title       string
	Description string
	Extra       map[string]markup.Value
}

// HasTitle reports whether the page declared a non-blank title.
func (f Frontmatter) HasTitle() bool { return strings.TrimSpace(f.Title) != "" }

// HasDescription reports whether the page declared a non-blank description.
func (f Frontmatter) HasDescription() bool { return strings.TrimSpace(f.Description) != "" }

// Extract decodes the frontmatter stored on root by handing the raw block back
// to p as a separate metadata document.
//
// It returns ok=false and a zero Frontmatter when the document has no
// frontmatter block. Extraction never fails: a malformed block yields whatever
// keys could be read from it.
func Extract(p *markup.Parser, root *markup.Node) (Frontmatter, bool) {
	if root == nil || p == nil {
		return Frontmatter{}, false
	}
	raw, ok := root.Attr(markup.FrontmatterAttribute)
	if !ok || raw.Type != markup.TypeString {
		return Frontmatter{}, false
	}

	fields := p.ParseMetadata(raw.Str)
	var fm Frontmatter
	if v, ok := fields[keyTitle]; ok {
		fm.Title = v.String()
		delete(fields, keyTitle)
	}
	if v, ok := fields[keyDescription]; ok {
		fm.Description = v.String()
		delete(fields, keyDescription)
	}
	if len(fields) > 0 {
		fm.Extra = fields
	}
	return fm, true
}

// Defaults are the site-wide fallbacks applied when a page omits a field.
type Defaults struct {
	Title       string
	Description string
}

// Resolved is the metadata a rendered page is published with.
type Resolved struct {
	Title       string
	Description string
	Extra       map[string]markup.Value
}

// Resolve applies defaults field by field: a page value wins, otherwise the
// site default is used.
func Resolve(fm Frontmatter, defaults Defaults) Resolved {
	r := Resolved{Title: defaults.Title, Description: defaults.Description}
	if fm.HasTitle() {
		r.Title = fm.Title
	}
	if fm.HasDescription() {
		r.Description = fm.Description
	}
	if len(fm.Extra) > 0 {
		r.Extra = maps.Clone(fm.Extra)
	}
	return r
}
