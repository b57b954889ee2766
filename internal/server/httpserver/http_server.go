// Package httpserver wires the docsite HTTP endpoints and manages the server
// lifecycle.
package httpserver

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	handlers "git.home.luguber.info/inful/docsite/internal/server/handlers"
	smw "git.home.luguber.info/inful/docsite/internal/server/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	// NavigationAPIPath serves the navigation tree as JSON.
	NavigationAPIPath = "/api/navigation"
)

// Server serves documentation pages and the monitoring endpoints.
type Server struct {
	cfg     *config.Config
	opts    Options
	started time.Time

	monitoringHandlers *handlers.MonitoringHandlers
	apiHandlers        *handlers.APIHandlers
	docsHandlers       *handlers.DocsHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler

	mu   sync.Mutex
	srv  *http.Server
	addr string
	done chan error
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{cfg: cfg, opts: opts, started: time.Now()}

	var href func(string) string
	if opts.Layout != nil {
		href = opts.Layout.Href
	}
	s.monitoringHandlers = handlers.NewMonitoringHandlers(s.started, opts.Navigation.Len(), opts.Ready, opts.Logger)
	s.apiHandlers = handlers.NewAPIHandlers(opts.Navigation, href, opts.Logger)
	s.docsHandlers = handlers.NewDocsHandlers(opts.Assembler, opts.Layout, opts.Logger)
	s.mchain = smw.Chain(opts.Logger, derrors.NewHTTPErrorAdapter(opts.Logger), opts.Recorder)
	return s
}

// Handler returns the complete handler tree with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	registered := map[string]bool{}
	handle := func(pattern string, h http.Handler) {
		if pattern == "" || registered[pattern] {
			return
		}
		registered[pattern] = true
		mux.Handle(pattern, h)
	}

	health := http.HandlerFunc(s.monitoringHandlers.HandleHealthCheck)
	handle(s.cfg.Monitoring.Health.Path, health)
	handle("/healthz", health)
	handle("/ready", http.HandlerFunc(s.monitoringHandlers.HandleReadiness))
	if s.cfg.Monitoring.Metrics.Enabled && s.opts.MetricsHandler != nil {
		handle(s.cfg.Monitoring.Metrics.Path, s.opts.MetricsHandler)
	}
	handle(NavigationAPIPath, http.HandlerFunc(s.apiHandlers.HandleNavigation))

	base := "/"
	if s.opts.Layout != nil {
		base = s.opts.Layout.BasePath()
	}
	if base == "/" {
		handle("/", s.docsHandlers)
	} else {
		handle(base, http.StripPrefix(strings.TrimSuffix(base, "/"), s.docsHandlers))
	}

	return s.mchain(mux)
}

// Start binds the configured port and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", s.cfg.Server.Port))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to bind docs port").
			WithContext("port", s.cfg.Server.Port).
			Fatal().
			Build()
	}
	return s.StartWithListener(ln)
}

// StartWithListener serves on a pre-bound listener in the background.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		_ = ln.Close()
		return derrors.InternalError("server already started").Build()
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.opts.Logger.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr().String()
	s.done = make(chan error, 1)

	srv, done := s.srv, s.done
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.opts.Logger.Error("docs server error", logfields.Error(err))
			done <- err
		}
	}()

	s.opts.Logger.Info("HTTP server started", slog.String("addr", s.addr))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Done yields a serve error, if any, and is closed when the server exits.
func (s *Server) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop gracefully shuts the server down and waits for it to exit.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.done
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("docs server shutdown: %w", err)
	}
	for range done {
	}
	s.opts.Logger.Info("HTTP server stopped")
	return nil
}
