// Package site assembles rendered pages from documents, frontmatter and the
// navigation index, and lays them out as complete HTML documents.
package site

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/docstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markup"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/schema"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

// State is the terminal state of an assembly.
type State int

const (
	Found State = iota
	NotFound
	Failed
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// StateOf classifies the error returned by Assemble.
func StateOf(err error) State {
	switch {
	case err == nil:
		return Found
	case errors.HasCategory(err, errors.CategoryNotFound):
		return NotFound
	default:
		return Failed
	}
}

// Page is a fully assembled page.
type Page struct {
	Path        string
	Title       string
	Description string
	Meta        map[string]markup.Value
	Content     string
	Tree        *transform.Descriptor
	Breadcrumbs []navigation.Crumb
	Sidebar     []navigation.SidebarSection
	Prev        *navigation.Page
	Next        *navigation.Page
	Issues      []transform.Issue
	Fingerprint string
}

// Dependencies are the shared, read-only collaborators of an Assembler.
type Dependencies struct {
	Store      docstore.Store
	Schema     *schema.Schema
	Registry   *render.Registry
	Navigation *navigation.Index
	Defaults   frontmatter.Defaults
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithStrict requires every assembled path other than the site root to be
// declared in the navigation index. Used for exhaustive builds.
func WithStrict(strict bool) Option {
	return func(a *Assembler) { a.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Assembler) { a.recorder = metrics.OrNoop(r) }
}

// Assembler runs the parse, transform and render pipeline for one path at a
// time. It holds only immutable state and is safe for concurrent use.
type Assembler struct {
	store       docstore.Store
	parser      *markup.Parser
	transformer *transform.Transformer
	renderer    *render.Renderer
	nav         *navigation.Index
	defaults    frontmatter.Defaults
	strict      bool
	logger      *slog.Logger
	recorder    metrics.Recorder
}

// NewAssembler validates deps and returns an Assembler. A schema that names a
// component missing from the registry is a fatal error.
func NewAssembler(deps Dependencies, opts ...Option) (*Assembler, error) {
	if deps.Store == nil || deps.Schema == nil || deps.Registry == nil || deps.Navigation == nil {
		return nil, errors.InternalError("assembler requires store, schema, registry and navigation").Build()
	}
	if err := deps.Registry.Check(deps.Schema); err != nil {
		return nil, err
	}

	a := &Assembler{
		store:    deps.Store,
		parser:   markup.NewParser(),
		renderer: render.NewRenderer(deps.Registry),
		nav:      deps.Navigation,
		defaults: deps.Defaults,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.transformer = transform.New(deps.Schema, transform.WithRecorder(a.recorder))
	return a, nil
}

// Navigation returns the navigation index the assembler uses.
func (a *Assembler) Navigation() *navigation.Index { return a.nav }

// Assemble resolves requestPath to a page.
//
// The error is classified: not_found for missing documents, documents that
// are not text, and (in strict mode) paths absent from the navigation index;
// render for component failures. Use StateOf to map it to a terminal state.
func (a *Assembler) Assemble(ctx context.Context, requestPath string) (*Page, error) {
	start := time.Now()
	page, err := a.assemble(ctx, requestPath)
	a.recorder.ObserveRenderDuration(time.Since(start))
	switch StateOf(err) {
	case Found:
		a.recorder.IncPageOutcome(metrics.OutcomeFound)
	case NotFound:
		a.recorder.IncPageOutcome(metrics.OutcomeNotFound)
	default:
		a.recorder.IncPageOutcome(metrics.OutcomeError)
	}
	return page, err
}

func (a *Assembler) assemble(ctx context.Context, requestPath string) (*Page, error) {
	segments := navigation.Segments(requestPath)
	path := strings.Join(segments, "/")

	if a.strict && path != "" {
		if _, ok := a.nav.Lookup(path); !ok {
			return nil, notFound(path, "path is not in the navigation index", nil)
		}
	}

	src, err := a.store.Read(ctx, segments)
	if err != nil {
		if docstore.IsMissing(err) {
			return nil, notFound(path, "document is missing", err)
		}
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read document").
			WithContext("path", path).
			Build()
	}

	root, err := a.parser.Parse(src)
	if err != nil {
		a.logger.WarnContext(ctx, "Document could not be parsed", logfields.Path(path), logfields.Error(err))
		return nil, notFound(path, "document is not text", err)
	}

	fm, _ := frontmatter.Extract(a.parser, root)
	meta := frontmatter.Resolve(fm, a.defaults)

	res := a.transformer.Transform(root)
	res.LogIssues(ctx, a.logger, path)

	content, err := a.renderer.RenderHTML(res.Root)
	if err != nil {
		return nil, err
	}

	prev, next := a.nav.Neighbors(path)
	return &Page{
		Path:        path,
		Title:       meta.Title,
		Description: meta.Description,
		Meta:        meta.Extra,
		Content:     content,
		Tree:        res.Root,
		Breadcrumbs: a.nav.Breadcrumbs(path),
		Sidebar:     a.nav.Sidebar(path),
		Prev:        prev,
		Next:        next,
		Issues:      res.Issues,
		Fingerprint: markup.Fingerprint(src),
	}, nil
}

func notFound(path, reason string, cause error) error {
	b := errors.NewError(errors.CategoryNotFound, "page not found").
		WithContext("path", path).
		WithContext("reason", reason)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b.Build()
}
