package handlers

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
)

// APIHandlers serves the JSON API.
type APIHandlers struct {
	nav          *navigation.Index
	href         func(string) string
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAPIHandlers creates the API handlers. href maps a page path to its public
// URL; nil means "/" + path + "/".
func NewAPIHandlers(nav *navigation.Index, href func(string) string, logger *slog.Logger) *APIHandlers {
	if href == nil {
		href = func(p string) string {
			if p == "" {
				return "/"
			}
			return "/" + p + "/"
		}
	}
	return &APIHandlers{nav: nav, href: href, errorAdapter: errors.NewHTTPErrorAdapter(logger)}
}

// HandleNavigation returns the navigation tree. With ?path=..., the section
// and page containing that path are marked active and breadcrumbs are included.
func (h *APIHandlers) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	path := navigation.CleanPath(r.URL.Query().Get("path"))
	resp := responses.NavigationResponse{}
	for _, s := range h.nav.Sidebar(path) {
		sec := responses.NavigationSection{
			Title:  s.Title,
			Path:   s.Path,
			Active: s.Active,
			Pages:  make([]responses.NavigationPage, 0, len(s.Pages)),
		}
		for _, p := range s.Pages {
			sec.Pages = append(sec.Pages, responses.NavigationPage{
				Title:  p.Title,
				Path:   p.Path,
				URL:    h.href(p.Path),
				Active: p.Active,
			})
		}
		resp.Sections = append(resp.Sections, sec)
	}
	for _, c := range h.nav.Breadcrumbs(path) {
		resp.Breadcrumbs = append(resp.Breadcrumbs, responses.Crumb{Title: c.Title, Path: c.Path, Current: c.Current})
	}

	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write navigation response").Build())
	}
}
