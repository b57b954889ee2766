package navigation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Crumb is one breadcrumb entry.
type Crumb struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Current bool   `json:"current,omitempty"`
}

// Breadcrumbs derives the trail for path from its segments. Each prefix takes
// the title of the page or section declared at that path; undeclared prefixes
// get a title made from the segment itself.
func (idx *Index) Breadcrumbs(path string) []Crumb {
	segs := Segments(path)
	if len(segs) == 0 {
		return nil
	}
	caser := cases.Title(language.English)

	crumbs := make([]Crumb, 0, len(segs))
	for i := range segs {
		prefix := strings.Join(segs[:i+1], "/")
		crumbs = append(crumbs, Crumb{
			Title:   idx.titleFor(prefix, segs[i], caser),
			Path:    prefix,
			Current: i == len(segs)-1,
		})
	}
	return crumbs
}

func (idx *Index) titleFor(prefix, segment string, caser cases.Caser) string {
	if pos, ok := idx.byPath[prefix]; ok {
		if pos.page >= 0 {
			return idx.sections[pos.section].Pages[pos.page].Title
		}
		return idx.sections[pos.section].Title
	}
	return SegmentTitle(segment, caser)
}

// SegmentTitle turns a path segment such as "getting-started" into
// "Getting Started".
func SegmentTitle(segment string, caser cases.Caser) string {
	words := strings.FieldsFunc(segment, func(r rune) bool { return r == '-' || r == '_' })
	return caser.String(strings.Join(words, " "))
}

// SidebarPage is a page entry with its active flag.
type SidebarPage struct {
	Title  string `json:"title"`
	Path   string `json:"path"`
	Active bool   `json:"active,omitempty"`
}

// SidebarSection is a section entry with its active flag.
type SidebarSection struct {
	Title  string        `json:"title"`
	Path   string        `json:"path,omitempty"`
	Active bool          `json:"active,omitempty"`
	Pages  []SidebarPage `json:"pages"`
}

// Sidebar returns the full navigation with the section and page containing
// path marked active. An empty or unknown path marks nothing.
func (idx *Index) Sidebar(path string) []SidebarSection {
	current := CleanPath(path)
	pos, found := idx.byPath[current]

	out := make([]SidebarSection, len(idx.sections))
	for si, s := range idx.sections {
		sec := SidebarSection{
			Title:  s.Title,
			Path:   s.Path,
			Active: found && pos.section == si,
			Pages:  make([]SidebarPage, len(s.Pages)),
		}
		for pi, p := range s.Pages {
			sec.Pages[pi] = SidebarPage{Title: p.Title, Path: p.Path, Active: found && p.Path == current}
		}
		out[si] = sec
	}
	return out
}
