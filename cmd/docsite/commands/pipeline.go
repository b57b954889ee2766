package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docsite/internal/components"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/schema"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// pipeline holds the immutable collaborators built from one configuration.
type pipeline struct {
	cfg       *config.Config
	schema    *schema.Schema
	nav       *navigation.Index
	store     *docstore.FSStore
	registry  *render.Registry
	layout    *site.Layout
	assembler *site.Assembler

	promRegistry *prometheus.Registry
	recorder     metrics.Recorder
}

type pipelineOptions struct {
	strict  bool
	metrics bool
}

// newPipeline loads the schema and navigation, builds the component registry
// and layout, and checks that every schema component is registered.
func newPipeline(cfg *config.Config, logger *slog.Logger, opts pipelineOptions) (*pipeline, error) {
	p := &pipeline{cfg: cfg, recorder: metrics.NoopRecorder{}}

	var err error
	if p.schema, err = loadSchema(cfg.Content.Schema); err != nil {
		return nil, err
	}
	if p.nav, err = navigation.Load(cfg.Content.Navigation); err != nil {
		return nil, err
	}
	p.store = docstore.NewFSStore(cfg.Content.Dir, cfg.Content.Extension)

	codeBlock := components.NewCodeBlock(cfg.Site.CodeStyle)
	p.registry = components.Registry().With(schema.CodeBlock, codeBlock)

	var css strings.Builder
	css.WriteString(site.BaseStylesheet())
	if err := codeBlock.WriteCSS(&css); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "write highlighting stylesheet").Build()
	}
	p.layout, err = site.NewLayout(site.Info{
		Title:      cfg.Site.Title,
		BaseURL:    cfg.Site.BaseURL,
		Stylesheet: css.String(),
	}, p.nav)
	if err != nil {
		return nil, err
	}

	if opts.metrics {
		p.promRegistry = prometheus.NewRegistry()
		p.promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		p.recorder = metrics.NewPrometheusRecorder(p.promRegistry)
	}

	p.assembler, err = site.NewAssembler(site.Dependencies{
		Store:      p.store,
		Schema:     p.schema,
		Registry:   p.registry,
		Navigation: p.nav,
		Defaults:   frontmatter.Defaults{Title: cfg.Site.Title, Description: cfg.Site.Description},
	}, site.WithStrict(opts.strict), site.WithLogger(logger), site.WithRecorder(p.recorder))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return schema.Default(), nil
	}
	return schema.Load(path)
}

// contentReady reports whether the content directory is readable.
func (p *pipeline) contentReady(context.Context) error {
	st, err := os.Stat(p.store.Base())
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "content directory unavailable").
			WithContext("path", p.store.Base()).
			Build()
	}
	if !st.IsDir() {
		return errors.FileSystemError("content path is not a directory").
			WithContext("path", p.store.Base()).
			Build()
	}
	return nil
}
