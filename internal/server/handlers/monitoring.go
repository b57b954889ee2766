package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
	"git.home.luguber.info/inful/docsite/internal/version"
)

// ReadinessCheck reports whether the server can serve documents.
type ReadinessCheck func(ctx context.Context) error

// MonitoringHandlers contains health and readiness handlers.
type MonitoringHandlers struct {
	startTime    time.Time
	pages        int
	ready        ReadinessCheck
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates monitoring handlers. pages is the size of the
// navigation index; ready may be nil.
func NewMonitoringHandlers(startTime time.Time, pages int, ready ReadinessCheck, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    startTime,
		pages:        pages,
		ready:        ready,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleHealthCheck reports liveness.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build())
	}
}

// HandleReadiness reports whether documents can be served.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.errorAdapter.WriteErrorResponse(w, r,
				errors.WrapError(err, errors.CategoryRuntime, "not ready").Warning().Build())
			return
		}
	}

	resp := &responses.ReadinessResponse{Status: "ready", Timestamp: time.Now().UTC(), Pages: h.pages}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write readiness response").Build())
	}
}
