// Package generate pre-renders every page of the navigation index to static
// files.
package generate

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/site"
)

const (
	pageFile     = "index.html"
	notFoundFile = "404.html"
)

// PageResult is the outcome for one path.
type PageResult struct {
	Path     string
	File     string
	State    site.State
	Issues   int
	Err      error
	Duration time.Duration
}

// Report aggregates the outcome of a run. Results are sorted by path.
type Report struct {
	Results  []PageResult
	Duration time.Duration
}

// OK reports whether every path succeeded.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the results that did not produce a page.
func (r *Report) Failed() []PageResult {
	var out []PageResult
	for _, res := range r.Results {
		if res.State != site.Found {
			out = append(out, res)
		}
	}
	return out
}

// Issues returns the total number of transform issues across all pages.
func (r *Report) Issues() int {
	n := 0
	for _, res := range r.Results {
		n += res.Issues
	}
	return n
}

// Options configures a Generator.
type Options struct {
	OutputDir   string
	Concurrency int
	Logger      *slog.Logger
	Recorder    metrics.Recorder
}

// Generator renders pages in parallel. One failing path never stops the
// others.
type Generator struct {
	assembler   *site.Assembler
	layout      *site.Layout
	out         string
	concurrency int
	logger      *slog.Logger
	recorder    metrics.Recorder
}

// New returns a generator. A Concurrency of zero or less means one worker
// per page.
func New(a *site.Assembler, l *site.Layout, opts Options) *Generator {
	g := &Generator{
		assembler:   a,
		layout:      l,
		out:         opts.OutputDir,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
		recorder:    metrics.OrNoop(opts.Recorder),
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Run assembles and writes every navigation page plus the site root when it
// has a document, then writes the not-found page. The returned error is
// reserved for cancellation and output directory failures; page failures are
// in the report.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	if err := os.MkdirAll(g.out, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("dir", g.out).
			Build()
	}

	paths, rootOptional := g.paths()
	report, err := g.each(ctx, paths, rootOptional, g.write)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := g.layout.WriteNotFound(&buf, ""); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(g.out, notFoundFile), buf.Bytes()); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	g.recorder.ObserveGenerateDuration(report.Duration)
	g.logger.InfoContext(ctx, "Generation finished",
		slog.Int("pages", len(report.Results)),
		slog.Int("failed", len(report.Failed())),
		slog.Int("issues", report.Issues()),
		logfields.Duration(report.Duration))
	return report, nil
}

// Verify assembles every navigation page without writing output. A report
// with failures means an index entry has no usable document.
func (g *Generator) Verify(ctx context.Context) (*Report, error) {
	start := time.Now()
	var paths []string
	for _, p := range g.assembler.Navigation().Pages() {
		paths = append(paths, p.Path)
	}
	report, err := g.each(ctx, paths, false, nil)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

// paths lists the navigation pages, preceded by the site root when the index
// does not list it. An unlisted root is optional: a missing document for it
// is not a failure.
func (g *Generator) paths() (paths []string, rootOptional bool) {
	nav := g.assembler.Navigation()
	if _, listed := nav.Lookup(""); !listed {
		paths = append(paths, "")
		rootOptional = true
	}
	for _, p := range nav.Pages() {
		paths = append(paths, p.Path)
	}
	return paths, rootOptional
}

type writeFunc func(page *site.Page) (string, error)

func (g *Generator) each(ctx context.Context, paths []string, rootOptional bool, write writeFunc) (*Report, error) {
	var (
		mu      sync.Mutex
		results = make([]PageResult, 0, len(paths))
	)
	addResult := func(r PageResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if g.concurrency > 0 {
		eg.SetLimit(g.concurrency)
	}
	for _, path := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			optional := rootOptional && path == ""
			res := g.one(egCtx, path, optional, write)
			if stderrors.Is(res.Err, context.Canceled) || stderrors.Is(res.Err, context.DeadlineExceeded) {
				return res.Err
			}
			if optional && res.State == site.NotFound {
				return nil
			}
			addResult(res)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return &Report{Results: results}, nil
}

func (g *Generator) one(ctx context.Context, path string, optional bool, write writeFunc) PageResult {
	start := time.Now()
	res := PageResult{Path: path}

	page, err := g.assembler.Assemble(ctx, path)
	if err == nil && write != nil {
		res.File, err = write(page)
	}
	res.Duration = time.Since(start)
	res.State = site.StateOf(err)
	res.Err = err
	if page != nil {
		res.Issues = len(page.Issues)
	}

	if err != nil {
		if optional && res.State == site.NotFound {
			return res
		}
		g.recorder.IncGenerateResult(metrics.ResultFailed)
		g.logger.ErrorContext(ctx, "Page generation failed",
			logfields.Path(path),
			logfields.Outcome(res.State.String()),
			logfields.Error(err))
		return res
	}
	g.recorder.IncGenerateResult(metrics.ResultSuccess)
	g.logger.DebugContext(ctx, "Page generated", logfields.Path(path), logfields.Duration(res.Duration))
	return res
}

func (g *Generator) write(page *site.Page) (string, error) {
	var buf bytes.Buffer
	if err := g.layout.Write(&buf, page); err != nil {
		return "", err
	}
	target := filepath.Join(g.out, filepath.FromSlash(page.Path), pageFile)
	if err := writeFile(target, buf.Bytes()); err != nil {
		return "", err
	}
	return target, nil
}

// writeFile replaces target atomically.
func writeFile(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create directory").WithContext("dir", dir).Build()
	}
	tmp, err := os.CreateTemp(dir, ".docsite-*")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create temp file").WithContext("dir", dir).Build()
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "write file").WithContext("file", target).Build()
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "close file").WithContext("file", target).Build()
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // published site files
		return errors.WrapError(err, errors.CategoryFileSystem, "chmod file").WithContext("file", target).Build()
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "rename file").WithContext("file", target).Build()
	}
	return nil
}
