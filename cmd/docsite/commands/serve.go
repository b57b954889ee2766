package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/httpserver"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port   int  `short:"p" help:"Override server.port from the configuration"`
	Strict bool `help:"Serve only paths declared in the navigation file"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}

	p, err := newPipeline(cfg, g.logger(), pipelineOptions{
		strict:  s.Strict || cfg.Build.Strict,
		metrics: cfg.Monitoring.Metrics.Enabled,
	})
	if err != nil {
		return err
	}

	opts := httpserver.Options{
		Assembler:  p.assembler,
		Layout:     p.layout,
		Navigation: p.nav,
		Ready:      p.contentReady,
		Recorder:   p.recorder,
		Logger:     g.logger(),
	}
	if p.promRegistry != nil {
		opts.MetricsHandler = metrics.HTTPHandler(p.promRegistry)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return runServer(ctx, httpserver.New(cfg, opts), g.logger())
}

// runServer starts srv and blocks until ctx is done or the server fails.
func runServer(ctx context.Context, srv *httpserver.Server, logger *slog.Logger) error {
	if err := srv.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case serveErr = <-srv.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return serveErr
}
