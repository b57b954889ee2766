package navigation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const fixture = `
sections:
  - title: Getting Started
    path: /getting-started/
    pages:
      - title: Overview
        path: getting-started
      - title: Installation
        path: getting-started/installation
        file: getting-started/installation.md
  - title: Guides
    pages:
      - title: Writing Pages
        path: guides/writing-pages
      - title: Custom Tags
        path: guides/custom-tags
`

func load(t *testing.T) *Index {
	t.Helper()
	idx, err := Parse([]byte(fixture))
	require.NoError(t, err)
	return idx
}

func TestParse_OrderAndLookup(t *testing.T) {
	idx := load(t)

	var paths []string
	for _, p := range idx.Pages() {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{
		"getting-started",
		"getting-started/installation",
		"guides/writing-pages",
		"guides/custom-tags",
	}, paths)
	assert.Equal(t, 4, idx.Len())

	p, ok := idx.Lookup("/getting-started/installation/")
	require.True(t, ok)
	assert.Equal(t, "Installation", p.Title)
	assert.Equal(t, "getting-started/installation.md", p.File)

	_, ok = idx.Lookup("guides")
	assert.False(t, ok)
	_, ok = idx.Lookup("missing")
	assert.False(t, ok)

	sections := idx.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "getting-started", sections[0].Path)
	assert.Equal(t, "Guides", sections[1].Title)
}

func TestIndex_IsImmutable(t *testing.T) {
	idx := load(t)
	idx.Pages()[0].Title = "changed"
	idx.Sections()[0].Pages[0].Title = "changed"

	p, _ := idx.Lookup("getting-started")
	assert.Equal(t, "Overview", p.Title)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"malformed":      "sections: [",
		"empty":          "",
		"no pages":       "sections:\n  - title: A\n",
		"untitled page":  "sections:\n  - title: A\n    pages:\n      - path: a\n",
		"untitled sect":  "sections:\n  - pages:\n      - title: A\n        path: a\n",
		"duplicate page": "sections:\n  - title: A\n    pages:\n      - {title: A, path: a}\n      - {title: B, path: /a/}\n",
		"cross section":  "sections:\n  - title: A\n    path: a\n    pages:\n      - {title: X, path: x}\n  - title: B\n    pages:\n      - {title: Y, path: a}\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navigation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	idx, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
	assert.Equal(t, errors.SeverityFatal, errors.GetSeverity(err))

	require.NoError(t, os.WriteFile(path, []byte("sections: {"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
}

func TestBreadcrumbs(t *testing.T) {
	idx := load(t)

	assert.Equal(t, []Crumb{
		{Title: "Overview", Path: "getting-started"},
		{Title: "Installation", Path: "getting-started/installation", Current: true},
	}, idx.Breadcrumbs("/getting-started/installation"))

	assert.Equal(t, []Crumb{
		{Title: "Guides", Path: "guides"},
		{Title: "Custom Tags", Path: "guides/custom-tags", Current: true},
	}, idx.Breadcrumbs("guides/custom-tags"))

	assert.Equal(t, []Crumb{
		{Title: "Api Reference", Path: "api_reference"},
		{Title: "Rest Endpoints", Path: "api_reference/rest-endpoints", Current: true},
	}, idx.Breadcrumbs("api_reference/rest-endpoints"))

	assert.Nil(t, idx.Breadcrumbs("/"))
}

func TestSegmentTitle(t *testing.T) {
	caser := cases.Title(language.English)
	assert.Equal(t, "Getting Started", SegmentTitle("getting-started", caser))
	assert.Equal(t, "Faq", SegmentTitle("FAQ", caser))
}

func TestSidebar(t *testing.T) {
	idx := load(t)

	sb := idx.Sidebar("guides/custom-tags")
	require.Len(t, sb, 2)
	assert.False(t, sb[0].Active)
	assert.True(t, sb[1].Active)
	assert.False(t, sb[1].Pages[0].Active)
	assert.True(t, sb[1].Pages[1].Active)

	for _, s := range idx.Sidebar("nowhere") {
		assert.False(t, s.Active)
		for _, p := range s.Pages {
			assert.False(t, p.Active)
		}
	}
}

func TestNeighbors(t *testing.T) {
	idx := load(t)

	prev, next := idx.Neighbors("getting-started")
	assert.Nil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "getting-started/installation", next.Path)

	prev, next = idx.Neighbors("getting-started/installation")
	require.NotNil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "getting-started", prev.Path)
	assert.Equal(t, "guides/writing-pages", next.Path)

	prev, next = idx.Neighbors("guides/custom-tags")
	require.NotNil(t, prev)
	assert.Nil(t, next)

	prev, next = idx.Neighbors("missing")
	assert.Nil(t, prev)
	assert.Nil(t, next)
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Segments("//a/./b/"))
	assert.Nil(t, Segments("/"))
	assert.Equal(t, "a/b", CleanPath("/a//b/"))
}
