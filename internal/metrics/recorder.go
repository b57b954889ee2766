package metrics

import "time"

// PageOutcome enumerates the terminal states of a page assembly.
type PageOutcome string

const (
	OutcomeFound    PageOutcome = "found"
	OutcomeNotFound PageOutcome = "not_found"
	OutcomeError    PageOutcome = "error"
)

// ResultLabel enumerates generation result categories.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for the rendering pipeline. All methods
// must be safe for concurrent use.
type Recorder interface {
	ObserveRenderDuration(d time.Duration)
	IncPageOutcome(outcome PageOutcome)
	IncTransformIssue(kind string)
	ObserveGenerateDuration(d time.Duration)
	IncGenerateResult(result ResultLabel)
	ObserveHTTPRequest(method string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(time.Duration)              {}
func (NoopRecorder) IncPageOutcome(PageOutcome)                       {}
func (NoopRecorder) IncTransformIssue(string)                         {}
func (NoopRecorder) ObserveGenerateDuration(time.Duration)            {}
func (NoopRecorder) IncGenerateResult(ResultLabel)                    {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration)    {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
