package config

import (
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation"
)

const maxConcurrency = 256

// ValidateConfig checks a defaulted configuration. Every failing field is
// reported in a single fatal config error.
func ValidateConfig(cfg *Config) error {
	result := foundation.NotBlank("site.title")(cfg.Site.Title).
		Combine(foundation.NotBlank("content.dir")(cfg.Content.Dir)).
		Combine(foundation.NotBlank("content.navigation")(cfg.Content.Navigation)).
		Combine(foundation.InRange("server.port", 1, 65535)(cfg.Server.Port)).
		Combine(foundation.InRange("build.concurrency", 1, maxConcurrency)(cfg.Build.Concurrency)).
		Combine(foundation.NewValidatorChain(
			foundation.NotBlank("build.output"),
			notRoot("build.output"),
		).Validate(cfg.Build.Output)).
		Combine(positive("server.read_timeout", int64(cfg.Server.ReadTimeout))).
		Combine(positive("server.write_timeout", int64(cfg.Server.WriteTimeout))).
		Combine(endpoint("monitoring.metrics.path", cfg.Monitoring.Metrics.Path)).
		Combine(endpoint("monitoring.health.path", cfg.Monitoring.Health.Path))

	if cfg.Monitoring.Metrics.Path == cfg.Monitoring.Health.Path {
		result = result.Combine(foundation.Invalid(foundation.NewFieldError(
			"monitoring.metrics.path", "conflict", "must differ from monitoring.health.path", cfg.Monitoring.Metrics.Path)))
	}
	return result.ToError()
}

func notRoot(field string) foundation.Validator[string] {
	return func(v string) foundation.ValidationResult {
		if strings.TrimRight(v, "/") == "" && v != "" {
			return foundation.Invalid(foundation.NewFieldError(field, "root", "must not be the filesystem root", v))
		}
		return foundation.Valid()
	}
}

func positive(field string, v int64) foundation.ValidationResult {
	if v <= 0 {
		return foundation.Invalid(foundation.NewFieldError(field, "positive", "must be greater than zero", v))
	}
	return foundation.Valid()
}

func endpoint(field, path string) foundation.ValidationResult {
	if !strings.HasPrefix(path, "/") {
		return foundation.Invalid(foundation.NewFieldError(field, "endpoint", "must start with '/'", path))
	}
	return foundation.Valid()
}
