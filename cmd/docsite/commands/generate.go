package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/generate"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output      string `short:"o" help:"Override build.output from the configuration"`
	Concurrency int    `help:"Override build.concurrency from the configuration"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if c.Output != "" {
		cfg.Build.Output = c.Output
	}
	if c.Concurrency > 0 {
		cfg.Build.Concurrency = c.Concurrency
	}

	p, err := newPipeline(cfg, g.logger(), pipelineOptions{strict: cfg.Build.Strict})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return runGenerate(ctx, g, p)
}

func (p *pipeline) generator(g *Global) *generate.Generator {
	return generate.New(p.assembler, p.layout, generate.Options{
		OutputDir:   p.cfg.Build.Output,
		Concurrency: p.cfg.Build.Concurrency,
		Logger:      g.logger(),
		Recorder:    p.recorder,
	})
}

// runGenerate writes the site and turns page failures into an error.
func runGenerate(ctx context.Context, g *Global, p *pipeline) error {
	report, err := p.generator(g).Run(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "Generated %d pages into %s (%d issues)\n",
		len(report.Results)-len(report.Failed()), p.cfg.Build.Output, report.Issues())
	return reportError(report)
}

func reportError(report *generate.Report) error {
	if report.OK() {
		return nil
	}
	failed := report.Failed()
	paths := make([]string, 0, len(failed))
	for _, f := range failed {
		paths = append(paths, "/"+f.Path)
	}
	return errors.RenderError(fmt.Sprintf("%d pages failed", len(failed))).
		WithContext("paths", paths).
		Build()
}
