package httpserver

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"git.home.luguber.info/inful/docsite/internal/components"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docstore"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/schema"
	"git.home.luguber.info/inful/docsite/internal/server/middleware"
	"git.home.luguber.info/inful/docsite/internal/site"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const navFixture = `
sections:
  - title: Guides
    pages:
      - title: Welcome
        path: guides/welcome
`

func newServer(t *testing.T, cfgYAML, baseURL string) *Server {
	t.Helper()
	cfg, err := config.Parse([]byte(cfgYAML))
	require.NoError(t, err)

	nav, err := navigation.Parse([]byte(navFixture))
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	reg := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	a, err := site.NewAssembler(site.Dependencies{
		Store:      docstore.NewMemoryStore(map[string]string{"guides/welcome": "# Welcome\n"}),
		Schema:     schema.Default(),
		Registry:   components.Registry(),
		Navigation: nav,
	}, site.WithLogger(logger), site.WithRecorder(recorder))
	require.NoError(t, err)
	layout, err := site.NewLayout(site.Info{Title: "Acme", BaseURL: baseURL}, nav)
	require.NoError(t, err)

	return New(cfg, Options{
		Assembler:      a,
		Layout:         layout,
		Navigation:     nav,
		MetricsHandler: metrics.HTTPHandler(reg),
		Recorder:       recorder,
		Logger:         logger,
	})
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string, http.Header) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestHandler_Routes(t *testing.T) {
	s := newServer(t, "monitoring:\n  metrics:\n    enabled: true\n", "")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/guides/welcome/", http.StatusOK, `<h1 id="welcome">Welcome</h1>`},
		{"/guides/missing", http.StatusNotFound, "Page not found"},
		{"/health", http.StatusOK, `"status":"healthy"`},
		{"/healthz", http.StatusOK, `"status":"healthy"`},
		{"/ready", http.StatusOK, `"pages":1`},
		{"/api/navigation", http.StatusOK, `"url":"/guides/welcome/"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body, header := get(t, ts, tt.path)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body, tt.contains)
			assert.NotEmpty(t, header.Get(middleware.RequestIDHeader))
		})
	}

	status, body, _ := get(t, ts, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `docsite_page_outcomes_total{outcome="found"}`)
	assert.Contains(t, body, "docsite_http_requests_total")
}

func TestHandler_MetricsDisabled(t *testing.T) {
	s := newServer(t, "", "")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	status, body, _ := get(t, ts, "/metrics")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Page not found")
}

func TestHandler_BasePath(t *testing.T) {
	s := newServer(t, "", "https://example.com/docs/")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	status, body, _ := get(t, ts, "/docs/guides/welcome/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `href="/docs/guides/welcome/"`)

	status, _, _ = get(t, ts, "/guides/welcome/")
	assert.Equal(t, http.StatusNotFound, status)

	status, body, _ = get(t, ts, "/api/navigation")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"url":"/docs/guides/welcome/"`)
}

func TestServer_StartStop(t *testing.T) {
	s := newServer(t, "", "")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, s.StartWithListener(ln))

	second, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.Error(t, s.StartWithListener(second))

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+s.Addr()+"/healthz", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	_, open := <-s.Done()
	assert.False(t, open)
}

func TestServer_StopBeforeStart(t *testing.T) {
	s := newServer(t, "", "")
	assert.NoError(t, s.Stop(context.Background()))
	assert.Empty(t, s.Addr())
}
