package site

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/components"
	"git.home.luguber.info/inful/docsite/internal/docstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/schema"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

const navFixture = `
sections:
  - title: Guides
    path: guides
    pages:
      - title: Welcome
        path: guides/welcome
      - title: Install
        path: guides/install
      - title: Broken
        path: guides/broken
`

var defaults = frontmatter.Defaults{Title: "Acme Docs", Description: "Everything about Acme"}

func newAssembler(t *testing.T, docs map[string]string, opts ...Option) *Assembler {
	t.Helper()
	nav, err := navigation.Parse([]byte(navFixture))
	require.NoError(t, err)

	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))}, opts...)
	a, err := NewAssembler(Dependencies{
		Store:      docstore.NewMemoryStore(docs),
		Schema:     schema.Default(),
		Registry:   components.Registry(),
		Navigation: nav,
		Defaults:   defaults,
	}, opts...)
	require.NoError(t, err)
	return a
}

func TestAssemble_EndToEnd(t *testing.T) {
	a := newAssembler(t, map[string]string{"guides/welcome": "# Welcome\n\nHello."})

	page, err := a.Assemble(context.Background(), "/guides/welcome/")
	require.NoError(t, err)
	assert.Equal(t, Found, StateOf(err))

	assert.Equal(t, "guides/welcome", page.Path)
	assert.Equal(t, "Acme Docs", page.Title)
	assert.Equal(t, "Everything about Acme", page.Description)

	require.Len(t, page.Tree.Children, 2)
	heading, para := page.Tree.Children[0], page.Tree.Children[1]
	assert.Equal(t, schema.Heading, heading.Component)
	level, _ := heading.Attr("level")
	assert.Equal(t, float64(1), level.Num)
	assert.Equal(t, "Welcome", heading.Children[0].Text)
	assert.Equal(t, schema.Paragraph, para.Component)
	assert.Equal(t, "Hello.", para.Children[0].Text)

	assert.Equal(t, `<article class="doc-content"><h1 id="welcome">Welcome</h1><p>Hello.</p></article>`, page.Content)
	assert.Equal(t, []navigation.Crumb{
		{Title: "Guides", Path: "guides"},
		{Title: "Welcome", Path: "guides/welcome", Current: true},
	}, page.Breadcrumbs)
	assert.Nil(t, page.Prev)
	require.NotNil(t, page.Next)
	assert.Equal(t, "guides/install", page.Next.Path)
	assert.NotEmpty(t, page.Fingerprint)
}

func TestAssemble_FrontmatterFallback(t *testing.T) {
	a := newAssembler(t, map[string]string{
		"guides/install": "---\ntitle: Install Acme\n---\n# Install\n",
	})

	page, err := a.Assemble(context.Background(), "guides/install")
	require.NoError(t, err)
	assert.Equal(t, "Install Acme", page.Title)
	assert.Equal(t, "Everything about Acme", page.Description)
}

func TestAssemble_NotFound(t *testing.T) {
	a := newAssembler(t, map[string]string{
		"guides/broken": "bad\x00bytes",
		"extra":         "# Extra\n",
	}, WithStrict(true))

	for _, path := range []string{"guides/install", "guides/broken", "extra", "../etc/passwd"} {
		t.Run(path, func(t *testing.T) {
			page, err := a.Assemble(context.Background(), path)
			require.Error(t, err)
			assert.Nil(t, page)
			assert.Equal(t, NotFound, StateOf(err))
		})
	}
}

func TestAssemble_NonStrictServesUnlistedPaths(t *testing.T) {
	a := newAssembler(t, map[string]string{"extra": "# Extra\n"})

	page, err := a.Assemble(context.Background(), "extra")
	require.NoError(t, err)
	assert.Equal(t, "Extra", page.Breadcrumbs[0].Title)
	for _, s := range page.Sidebar {
		assert.False(t, s.Active)
	}
}

func TestAssemble_StrictAllowsRoot(t *testing.T) {
	a := newAssembler(t, map[string]string{"": "# Home\n"}, WithStrict(true))

	page, err := a.Assemble(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "", page.Path)
	assert.Empty(t, page.Breadcrumbs)
}

func TestAssemble_UnknownTagStillRendersPage(t *testing.T) {
	a := newAssembler(t, map[string]string{
		"guides/welcome": "{% callout type=\"success\" %}\nKnown\n{% /callout %}\n\n{% mystery %}\nHidden?\n{% /mystery %}\n",
	})

	page, err := a.Assemble(context.Background(), "guides/welcome")
	require.NoError(t, err)
	assert.Contains(t, page.Content, `<aside class="callout callout-success" role="note"><p>Known</p></aside>`)
	assert.Contains(t, page.Content, "{% mystery %}<p>Hidden?</p>{% /mystery %}")
	require.Len(t, page.Issues, 1)
	assert.Equal(t, transform.IssueUnregisteredTag, page.Issues[0].Kind)
}

func TestAssemble_Canceled(t *testing.T) {
	a := newAssembler(t, map[string]string{"guides/welcome": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Assemble(ctx, "guides/welcome")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Failed, StateOf(err))
}

func TestNewAssembler_UnregisteredComponentIsFatal(t *testing.T) {
	nav, err := navigation.Parse([]byte(navFixture))
	require.NoError(t, err)

	_, err = NewAssembler(Dependencies{
		Store:      docstore.NewMemoryStore(nil),
		Schema:     schema.Default(),
		Registry:   render.NewRegistry(nil),
		Navigation: nav,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnregisteredComponent)
	assert.True(t, errors.GetSeverity(err) == errors.SeverityFatal)

	_, err = NewAssembler(Dependencies{})
	require.Error(t, err)
}

func TestLayout_Write(t *testing.T) {
	a := newAssembler(t, map[string]string{"guides/install": "---\ntitle: Install <Acme>\n---\n# Install\n"})
	page, err := a.Assemble(context.Background(), "guides/install")
	require.NoError(t, err)

	l, err := NewLayout(Info{Title: "Acme Docs", BaseURL: "https://example.com/docs", Stylesheet: ".chroma{}"}, a.Navigation())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, l.Write(&buf, page))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Install &lt;Acme&gt; | Acme Docs</title>")
	assert.Contains(t, out, `<meta name="description" content="Everything about Acme">`)
	assert.Contains(t, out, "<style>.chroma{}</style>")
	assert.Contains(t, out, `<h1 id="install">Install</h1>`)
	assert.Contains(t, out, `<a href="/docs/guides/install/" aria-current="page">Install</a>`)
	assert.Contains(t, out, `<span aria-current="page">Install</span>`)
	assert.Contains(t, out, `<a class="prev" href="/docs/guides/welcome/">`)
	assert.Contains(t, out, `<a class="next" href="/docs/guides/broken/">`)
}

func TestLayout_WriteNotFound(t *testing.T) {
	nav, err := navigation.Parse([]byte(navFixture))
	require.NoError(t, err)
	l, err := NewLayout(Info{Title: "Acme Docs"}, nav)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, l.WriteNotFound(&buf, "/no/such/page"))
	out := buf.String()

	assert.Contains(t, out, "<h1>Page not found</h1>")
	assert.Contains(t, out, "<code>/no/such/page</code>")
	assert.Contains(t, out, `<a href="/guides/welcome/">Welcome</a>`)
	assert.NotContains(t, out, "doc-content")
}

func TestLayout_Href(t *testing.T) {
	nav, err := navigation.Parse([]byte(navFixture))
	require.NoError(t, err)

	root, err := NewLayout(Info{Title: "Acme Docs"}, nav)
	require.NoError(t, err)
	assert.Equal(t, "/", root.BasePath())
	assert.Equal(t, "/", root.Href(""))
	assert.Equal(t, "/guides/install/", root.Href("/guides/install"))

	sub, err := NewLayout(Info{Title: "Acme Docs", BaseURL: "https://example.com/docs"}, nav)
	require.NoError(t, err)
	assert.Equal(t, "/docs/", sub.BasePath())
	assert.Equal(t, "/docs/guides/install/", sub.Href("guides/install/"))
}

func TestBaseStylesheet(t *testing.T) {
	css := BaseStylesheet()
	assert.Contains(t, css, ".sidebar")
	assert.NotContains(t, css, "<")
}
