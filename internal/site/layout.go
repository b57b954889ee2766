package site

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/navigation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed templates/site.css
var baseStylesheet string

// BaseStylesheet returns the stylesheet for the layout chrome and the
// standard components.
func BaseStylesheet() string { return baseStylesheet }

// Info describes the site a layout renders for.
type Info struct {
	Title string
	// BaseURL is the public URL of the site root; only its path is used.
	BaseURL string
	// Stylesheet is inlined into every page.
	Stylesheet string
}

// Layout wraps assembled pages in the site chrome.
type Layout struct {
	site     Info
	basePath string
	nav      *navigation.Index
	page     *template.Template
	notFound *template.Template
}

type view struct {
	Site struct {
		Title      string
		Stylesheet template.CSS
	}
	Path        string
	Title       string
	Description string
	Content     template.HTML
	Breadcrumbs []navigation.Crumb
	Sidebar     []navigation.SidebarSection
	Prev        *navigation.Page
	Next        *navigation.Page
}

// NewLayout parses the page templates. nav supplies the sidebar of the
// not-found page.
func NewLayout(site Info, nav *navigation.Index) (*Layout, error) {
	l := &Layout{site: site, nav: nav, basePath: basePath(site.BaseURL)}
	funcs := template.FuncMap{"href": l.Href}

	var err error
	if l.page, err = template.New("page.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/page.html"); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "parse page template").Build()
	}
	if l.notFound, err = template.New("notfound.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/notfound.html"); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "parse not-found template").Build()
	}
	return l, nil
}

func basePath(baseURL string) string {
	p := "/"
	if u, err := url.Parse(baseURL); err == nil && u.Path != "" {
		p = u.Path
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// BasePath is the URL path the site is mounted under, always ending in "/".
func (l *Layout) BasePath() string { return l.basePath }

// Href returns the public URL path of a page path.
func (l *Layout) Href(path string) string {
	path = navigation.CleanPath(path)
	if path == "" {
		return l.basePath
	}
	return l.basePath + path + "/"
}

func (l *Layout) newView() view {
	var v view
	v.Site.Title = l.site.Title
	// Stylesheets come from configuration and the highlighter, not documents.
	v.Site.Stylesheet = template.CSS(l.site.Stylesheet) //nolint:gosec // trusted input
	return v
}

// Write renders p as a complete HTML document.
func (l *Layout) Write(w io.Writer, p *Page) error {
	v := l.newView()
	v.Path = p.Path
	v.Title = p.Title
	v.Description = p.Description
	// Page content is produced by the component renderer, which escapes text and
	// sanitizes raw HTML.
	v.Content = template.HTML(p.Content) //nolint:gosec // rendered by components
	v.Breadcrumbs = p.Breadcrumbs
	v.Sidebar = p.Sidebar
	v.Prev = p.Prev
	v.Next = p.Next
	return l.execute(w, l.page, v)
}

// WriteNotFound renders the dedicated not-found page for path.
func (l *Layout) WriteNotFound(w io.Writer, path string) error {
	v := l.newView()
	v.Path = navigation.CleanPath(path)
	v.Title = "Page not found"
	if l.nav != nil {
		v.Sidebar = l.nav.Sidebar("")
	}
	return l.execute(w, l.notFound, v)
}

// execute buffers the output so that a template failure never emits a
// partial page.
func (l *Layout) execute(w io.Writer, t *template.Template, v view) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "execute layout").
			WithContext("path", v.Path).
			Build()
	}
	_, err := buf.WriteTo(w)
	return err
}
