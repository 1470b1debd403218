// Package job defines the conversion job: its lifecycle states, terminal
// outcome, and the monotonic advisory progress value observable while the
// job runs.
package job

import (
	"sync"
)

// Status is the lifecycle state of a conversion job.
type Status int

const (
	Pending Status = iota
	Discovering
	Extracting
	Converging
	CleaningUp
	Normalizing
	Done
	Failed
)

// String implements fmt.Stringer for log output.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Discovering:
		return "discovering"
	case Extracting:
		return "extracting"
	case Converging:
		return "converging"
	case CleaningUp:
		return "cleaning_up"
	case Normalizing:
		return "normalizing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the terminal result of a job.
type Outcome int

const (
	OutcomeNone Outcome = iota
	Success
	PathMissing
	PathInvalid
	// NonConvergent means the pass cap was exceeded. Earlier passes have
	// already persisted whatever converged, so this is partial success
	// followed by failure, surfaced distinctly from total failure.
	NonConvergent
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case PathMissing:
		return "path_missing"
	case PathInvalid:
		return "path_invalid"
	case NonConvergent:
		return "non_convergent"
	}
	return "none"
}

// RenameRecord is one original → canonical rename performed by the output
// normalizer. The accumulated list is the job's durable proof of what
// changed.
type RenameRecord struct {
	Original  string
	Converted string
}

// Job is one conversion run. It is owned exclusively by the scheduler for
// its lifetime; observers read it through the accessor methods.
type Job struct {
	// TargetRoot is the raw root path as supplied by the caller; the
	// pipeline normalizes it before any side effect.
	TargetRoot string

	// RemoveSources enables deletion of the original legacy files once
	// convergence is reached.
	RemoveSources bool

	mu       sync.Mutex
	status   Status
	progress int
	started  bool
	outcome  Outcome
	renames  []RenameRecord
	fileErrs int
}

// New creates a job in the Pending state with no progress reported yet.
func New(targetRoot string, removeSources bool) *Job {
	return &Job{
		TargetRoot:    targetRoot,
		RemoveSources: removeSources,
	}
}

// SetStatus transitions the job's lifecycle state.
func (j *Job) SetStatus(s Status) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = s
}

// Status returns the current lifecycle state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// SetProgress advances the advisory progress value. Progress is clamped
// monotonic non-decreasing and to the 0..100 range; a stage reporting a
// lower value than an earlier stage cannot move it backwards.
func (j *Job) SetProgress(pct int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.started = true
	if pct > 100 {
		pct = 100
	}
	if pct > j.progress {
		j.progress = pct
	}
}

// Progress returns the current progress and whether the job has started
// reporting at all (false means idle).
func (j *Job) Progress() (int, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progress, j.started
}

// Finish records the terminal outcome and flips the status to Done or
// Failed. A successful job always lands on exactly 100.
func (j *Job) Finish(outcome Outcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outcome = outcome
	j.started = true
	if outcome == Success {
		j.status = Done
		j.progress = 100
	} else {
		j.status = Failed
	}
}

// Outcome returns the terminal outcome, OutcomeNone while running.
func (j *Job) Outcome() Outcome {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outcome
}

// RecordRename appends one rename to the audit list.
func (j *Job) RecordRename(original, converted string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.renames = append(j.renames, RenameRecord{Original: original, Converted: converted})
}

// Renames returns a copy of the audit list.
func (j *Job) Renames() []RenameRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]RenameRecord, len(j.renames))
	copy(out, j.renames)
	return out
}

// RecordFileError counts one absorbed per-file failure.
func (j *Job) RecordFileError() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileErrs++
}

// FileErrors returns how many per-file failures were absorbed.
func (j *Job) FileErrors() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileErrs
}
