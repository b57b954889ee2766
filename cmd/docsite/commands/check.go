package commands

import (
	"context"
	"fmt"
	"path"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/navigation"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

// Run verifies that the schema is consistent, every component it names is
// registered, and every navigation entry resolves to a document.
func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, g.logger(), pipelineOptions{strict: true})
	if err != nil {
		return err
	}
	if err := p.schema.Validate(); err != nil {
		return errors.WrapError(err, errors.CategorySchema, "schema is inconsistent").Build()
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "schema: %d tags, %d components registered\n", len(p.schema.Tags()), len(p.registry.Names()))

	report, err := p.generator(g).Verify(context.Background())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "navigation: %d pages, %d transform issues\n", len(report.Results), report.Issues())
	for _, f := range report.Failed() {
		_, _ = fmt.Fprintf(out, "  /%s: %s\n", f.Path, f.State)
	}
	mismatches := p.fileMismatches()
	for _, m := range mismatches {
		_, _ = fmt.Fprintf(out, "  /%s: file %s, path resolves to %s\n", m.Path, m.File, m.Resolved)
	}
	if !report.OK() {
		return errors.ValidationError(fmt.Sprintf("%d navigation entries do not resolve to a page", len(report.Failed()))).Build()
	}
	if len(mismatches) > 0 {
		return errors.ValidationError(fmt.Sprintf("%d navigation entries name a file their path does not resolve to", len(mismatches))).Build()
	}
	_, _ = fmt.Fprintln(out, "ok")
	return nil
}

type fileMismatch struct {
	Path     string
	File     string
	Resolved string
}

// fileMismatches lists navigation pages whose file entry differs from the
// document their path resolves to. Pages without a file entry are skipped.
func (p *pipeline) fileMismatches() []fileMismatch {
	var out []fileMismatch
	for _, page := range p.nav.Pages() {
		if page.File == "" {
			continue
		}
		resolved, err := p.store.Rel(navigation.Segments(page.Path))
		if err != nil {
			continue
		}
		if file := path.Clean(page.File); file != resolved {
			out = append(out, fileMismatch{Path: page.Path, File: page.File, Resolved: resolved})
		}
	}
	return out
}
