package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Debounce time.Duration `default:"300ms" help:"Quiet period after the last change before regenerating"`
}

// Run generates the site once, then watches the content directory, the
// navigation file and the schema file. Every change rebuilds the pipeline
// before regenerating, since the index or schema may be what changed.
func (c *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, g.logger(), pipelineOptions{strict: cfg.Build.Strict})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runGenerate(ctx, g, p); err != nil {
		g.logger().Warn("Initial generation incomplete", logfields.Error(err))
	}

	roots := []string{cfg.Content.Dir, cfg.Content.Navigation}
	if cfg.Content.Schema != "" {
		roots = append(roots, cfg.Content.Schema)
	}
	w := preview.NewWatcher(roots, func(ctx context.Context) error {
		next, err := newPipeline(cfg, g.logger(), pipelineOptions{strict: cfg.Build.Strict})
		if err != nil {
			return err
		}
		return runGenerate(ctx, g, next)
	}, preview.WithDebounce(c.Debounce), preview.WithLogger(g.logger()))

	g.logger().Info("Watching for changes", logfields.Path(cfg.Content.Dir))
	return w.Run(ctx)
}
