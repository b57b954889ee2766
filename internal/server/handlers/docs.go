package handlers

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// PageAssembler resolves a request path to a page.
type PageAssembler interface {
	Assemble(ctx context.Context, path string) (*site.Page, error)
}

// PageWriter lays out pages as HTML documents.
type PageWriter interface {
	Write(w io.Writer, p *site.Page) error
	WriteNotFound(w io.Writer, path string) error
}

// DocsHandlers serves documentation pages.
type DocsHandlers struct {
	assembler    PageAssembler
	layout       PageWriter
	errorAdapter *errors.HTTPErrorAdapter
	logger       *slog.Logger
}

// NewDocsHandlers creates the page handler.
func NewDocsHandlers(a PageAssembler, l PageWriter, logger *slog.Logger) *DocsHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocsHandlers{
		assembler:    a,
		layout:       l,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
		logger:       logger,
	}
}

// ServeHTTP assembles the page at the request path. Found pages carry an ETag
// derived from the document fingerprint; missing ones get the not-found page.
func (h *DocsHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	page, err := h.assembler.Assemble(r.Context(), r.URL.Path)
	switch site.StateOf(err) {
	case site.Found:
		h.writePage(w, r, page)
	case site.NotFound:
		h.writeNotFound(w, r)
	default:
		if stderrors.Is(err, context.Canceled) {
			h.logger.DebugContext(r.Context(), "Request canceled", logfields.Path(r.URL.Path))
			return
		}
		h.errorAdapter.WriteErrorResponse(w, r, err)
	}
}

func (h *DocsHandlers) writePage(w http.ResponseWriter, r *http.Request, page *site.Page) {
	etag := `"` + page.Fingerprint + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if page.Fingerprint != "" && etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := h.layout.Write(&buf, page); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.writeHTML(w, r, http.StatusOK, &buf)
}

func (h *DocsHandlers) writeNotFound(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.layout.WriteNotFound(&buf, r.URL.Path); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.writeHTML(w, r, http.StatusNotFound, &buf)
}

func (h *DocsHandlers) writeHTML(w http.ResponseWriter, r *http.Request, status int, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Failed writing page", logfields.Path(r.URL.Path), logfields.Error(err))
	}
}

// etagMatches implements the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
