package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and free-form fields before defaults
// are applied. It mutates c in place.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, errors.InternalError("config is nil").Build()
	}
	res := &NormalizationResult{}
	normalizeSite(&c.Site)
	normalizeContent(&c.Content, res)
	normalizeBuild(&c.Build, res)
	normalizeMonitoring(&c.Monitoring, res)
	return res, nil
}

func normalizeSite(s *SiteConfig) {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.BaseURL = strings.TrimSpace(s.BaseURL)
	s.CodeStyle = strings.ToLower(strings.TrimSpace(s.CodeStyle))
}

func normalizeContent(c *ContentConfig, res *NormalizationResult) {
	c.Dir = strings.TrimSpace(c.Dir)
	c.Navigation = strings.TrimSpace(c.Navigation)
	c.Schema = strings.TrimSpace(c.Schema)

	ext := strings.ToLower(strings.TrimSpace(c.Extension))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext != c.Extension {
		if c.Extension != "" {
			res.Warnings = append(res.Warnings, warnChanged("content.extension", c.Extension, ext))
		}
		c.Extension = ext
	}
}

func normalizeBuild(b *BuildConfig, res *NormalizationResult) {
	b.Output = strings.TrimSpace(b.Output)
	if b.Concurrency < 0 {
		res.Warnings = append(res.Warnings, warnChanged("build.concurrency", b.Concurrency, 0))
		b.Concurrency = 0
	}
}

func normalizeMonitoring(m *MonitoringConfig, res *NormalizationResult) {
	if lvl := NormalizeLogLevel(string(m.Logging.Level)); lvl != "" {
		if m.Logging.Level != lvl {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.level", m.Logging.Level, lvl))
			m.Logging.Level = lvl
		}
	} else if strings.TrimSpace(string(m.Logging.Level)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.level", string(m.Logging.Level), string(LogLevelInfo)))
		m.Logging.Level = LogLevelInfo
	}

	if f := NormalizeLogFormat(string(m.Logging.Format)); f != "" {
		if m.Logging.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.format", m.Logging.Format, f))
			m.Logging.Format = f
		}
	} else if strings.TrimSpace(string(m.Logging.Format)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.format", string(m.Logging.Format), string(LogFormatText)))
		m.Logging.Format = LogFormatText
	}

	m.Metrics.Path = strings.TrimSpace(m.Metrics.Path)
	m.Health.Path = strings.TrimSpace(m.Health.Path)
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
