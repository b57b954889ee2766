package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileIsFatalConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.Equal(t, errors.SeverityFatal, errors.GetSeverity(err))
}

func TestLoad_AppliesDefaultsAndResolvesPaths(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Acme Docs\n")
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Acme Docs", cfg.Site.Title)
	assert.Equal(t, "/", cfg.Site.BaseURL)
	assert.Equal(t, "github", cfg.Site.CodeStyle)
	assert.Equal(t, filepath.Join(dir, "content"), cfg.Content.Dir)
	assert.Equal(t, filepath.Join(dir, "navigation.yaml"), cfg.Content.Navigation)
	assert.Empty(t, cfg.Content.Schema)
	assert.Equal(t, ".md", cfg.Content.Extension)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.Build.Output)
	assert.Equal(t, runtime.NumCPU(), cfg.Build.Concurrency)
	assert.Equal(t, "/metrics", cfg.Monitoring.Metrics.Path)
	assert.Equal(t, "/health", cfg.Monitoring.Health.Path)
	assert.Equal(t, LogLevelInfo, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
}

func TestParse_EmptyDocumentIsValid(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "Documentation", cfg.Site.Title)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCSITE_TEST_TITLE", "From Env")
	cfg, err := Parse([]byte("site:\n  title: ${DOCSITE_TEST_TITLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Site.Title)
}

func TestParse_Normalizes(t *testing.T) {
	cfg, err := Parse([]byte(`
content:
  extension: MDX
server:
  read_timeout: 5s
monitoring:
  logging:
    level: WARNING
    format: yaml
`))
	require.NoError(t, err)
	assert.Equal(t, ".mdx", cfg.Content.Extension)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, LogLevelWarn, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
}

func TestNormalizeConfig_ReportsWarnings(t *testing.T) {
	cfg := &Config{
		Content:    ContentConfig{Extension: "txt"},
		Build:      BuildConfig{Concurrency: -3},
		Monitoring: MonitoringConfig{Logging: MonitoringLogging{Level: "loud"}},
	}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 3)
	assert.Equal(t, ".txt", cfg.Content.Extension)
	assert.Equal(t, 0, cfg.Build.Concurrency)
	assert.Equal(t, LogLevelInfo, cfg.Monitoring.Logging.Level)

	_, err = NormalizeConfig(nil)
	assert.Error(t, err)
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"port out of range": "server:\n  port: 70000\n",
		"unknown field":     "site:\n  titel: typo\n",
		"relative endpoint": "monitoring:\n  metrics:\n    path: metrics\n",
		"endpoint conflict": "monitoring:\n  metrics:\n    path: /x\n  health:\n    path: /x\n",
		"output at root":    "build:\n  output: /\n",
		"negative timeout":  "server:\n  write_timeout: -1s\n",
		"too much parallel": "build:\n  concurrency: 100000\n",
		"not a mapping":     "- a\n- b\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsite.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Documentation", cfg.Site.Title)
	assert.True(t, cfg.Monitoring.Metrics.Enabled)
	assert.Equal(t, 4, cfg.Build.Concurrency)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.NoError(t, Init(path, true))
}

func TestDefaultApplier_Domains(t *testing.T) {
	c := NewDefaultApplier()
	for _, d := range []string{"site", "content", "server", "build", "monitoring"} {
		assert.NotNil(t, c.GetApplierByDomain(d), d)
	}
	assert.Nil(t, c.GetApplierByDomain("hugo"))
}
