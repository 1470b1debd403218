// Package report delivers job progress and the terminal result to an
// external reporting/UI collaborator. The core pipeline has no interactive
// surface of its own; this is its only outward signal besides logs and the
// audit file.
package report

// ResultCode is the terminal signal delivered exactly once per job.
type ResultCode int

const (
	ResultSuccess ResultCode = 1
	ResultFailure ResultCode = 2
)

// Reporter receives advisory progress updates and one terminal result.
type Reporter interface {
	// Progress reports the job's current advisory progress (0..100) and
	// lifecycle status.
	Progress(pct int, status string)

	// Result delivers the terminal signal. Implementations ignore any call
	// after the first.
	Result(code ResultCode)

	// Close releases any transport resources.
	Close()
}

// Noop is the reporter used when no collaborator is configured.
type Noop struct{}

func (Noop) Progress(int, string) {}
func (Noop) Result(ResultCode)    {}
func (Noop) Close()               {}
