// Package navigation holds the site's ordered section and page index.
package navigation

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Page is a single navigable document.
type Page struct {
	Title string `yaml:"title" json:"title"`
	Path  string `yaml:"path" json:"path"`
	// File optionally names the source document relative to the content dir.
	// It must agree with the location Path resolves to; `docsite check` reports
	// entries where it does not.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Section groups pages under a heading.
type Section struct {
	Title string `yaml:"title" json:"title"`
	Path  string `yaml:"path" json:"path"`
	Pages []Page `yaml:"pages" json:"pages"`
}

type file struct {
	Sections []Section `yaml:"sections"`
}

type position struct {
	section int
	page    int // -1 for the section itself
	order   int // index into Index.pages, -1 for sections
}

// Index is the immutable navigation tree. Lookups are O(1); iteration follows
// declaration order.
type Index struct {
	sections []Section
	pages    []Page
	byPath   map[string]position
}

// Load reads the navigation file at path. A missing, malformed or empty file
// is a fatal configuration error.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "read navigation file").
			WithContext("path", path).
			Fatal().
			Build()
	}
	idx, err := Parse(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid navigation file").
			WithContext("path", path).
			Fatal().
			Build()
	}
	return idx, nil
}

// Parse decodes navigation YAML.
func Parse(data []byte) (*Index, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode navigation: %w", err)
	}
	return New(f.Sections)
}

// New builds an index from sections, normalizing every path. Sections and
// pages need a title and a path, paths must be unique, and at least one page
// must exist.
func New(sections []Section) (*Index, error) {
	idx := &Index{byPath: make(map[string]position)}
	for si, s := range sections {
		s.Path = CleanPath(s.Path)
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			return nil, fmt.Errorf("section %d: title is required", si+1)
		}
		if s.Path != "" {
			if err := idx.claim(s.Path, position{section: si, page: -1, order: -1}); err != nil {
				return nil, err
			}
		}

		pages := make([]Page, 0, len(s.Pages))
		for pi, p := range s.Pages {
			p.Path = CleanPath(p.Path)
			p.Title = strings.TrimSpace(p.Title)
			if p.Title == "" {
				return nil, fmt.Errorf("section %q page %d: title is required", s.Title, pi+1)
			}
			if err := idx.claim(p.Path, position{section: si, page: pi, order: len(idx.pages)}); err != nil {
				return nil, err
			}
			pages = append(pages, p)
			idx.pages = append(idx.pages, p)
		}
		s.Pages = pages
		idx.sections = append(idx.sections, s)
	}
	if len(idx.pages) == 0 {
		return nil, fmt.Errorf("navigation declares no pages")
	}
	return idx, nil
}

func (idx *Index) claim(path string, pos position) error {
	if prev, dup := idx.byPath[path]; dup {
		// A section may share its path with its own landing page.
		if !(prev.page == -1 && pos.page >= 0 && prev.section == pos.section) {
			return fmt.Errorf("duplicate navigation path %q", path)
		}
	}
	idx.byPath[path] = pos
	return nil
}

// CleanPath normalizes a request or navigation path: no surrounding slashes,
// no empty or dot segments.
func CleanPath(p string) string {
	return strings.Join(Segments(p), "/")
}

// Segments splits a path into its non-empty segments.
func Segments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s == "" || s == "." {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Lookup returns the page at path.
func (idx *Index) Lookup(path string) (Page, bool) {
	pos, ok := idx.byPath[CleanPath(path)]
	if !ok || pos.page < 0 {
		return Page{}, false
	}
	return idx.sections[pos.section].Pages[pos.page], true
}

// SectionOf returns the section containing path, which may be a page path or
// a section path.
func (idx *Index) SectionOf(path string) (Section, bool) {
	pos, ok := idx.byPath[CleanPath(path)]
	if !ok {
		return Section{}, false
	}
	return idx.section(pos.section), true
}

func (idx *Index) section(i int) Section {
	s := idx.sections[i]
	s.Pages = slices.Clone(s.Pages)
	return s
}

// Sections returns all sections in declared order.
func (idx *Index) Sections() []Section {
	out := make([]Section, len(idx.sections))
	for i := range idx.sections {
		out[i] = idx.section(i)
	}
	return out
}

// Pages returns every page in declared order.
func (idx *Index) Pages() []Page {
	return slices.Clone(idx.pages)
}

// Len returns the number of pages.
func (idx *Index) Len() int { return len(idx.pages) }

// Neighbors returns the pages before and after path in reading order.
func (idx *Index) Neighbors(path string) (prev, next *Page) {
	pos, ok := idx.byPath[CleanPath(path)]
	if !ok || pos.order < 0 {
		return nil, nil
	}
	if pos.order > 0 {
		p := idx.pages[pos.order-1]
		prev = &p
	}
	if pos.order+1 < len(idx.pages) {
		p := idx.pages[pos.order+1]
		next = &p
	}
	return prev, next
}
