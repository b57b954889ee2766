package httpserver

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/server/handlers"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Options wires the collaborators of the HTTP server.
type Options struct {
	Assembler  handlers.PageAssembler
	Layout     *site.Layout
	Navigation *navigation.Index

	// Optional: readiness probe behind /ready.
	Ready handlers.ReadinessCheck

	// Optional: exposed on monitoring.metrics.path when metrics are enabled.
	MetricsHandler http.Handler
	Recorder       metrics.Recorder

	Logger *slog.Logger
}
