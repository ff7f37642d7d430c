package domain

import "time"

// VerificationResult is the outcome of verifying one specification
type VerificationResult struct {
	Passed bool
	Err    error // Optional failure detail, only meaningful when Passed is false
}

// TestState is the listener-facing state of a finished specification
type TestState int

const (
	TestStatePassed TestState = iota
	TestStateFailed
)

// String returns a human-readable label for the test state.
func (s TestState) String() string {
	switch s {
	case TestStatePassed:
		return "passed"
	case TestStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TestResult is reported to listeners once per executed specification
type TestResult struct {
	Name       string
	State      TestState
	StackTrace string // Empty unless State is failed and the verification carried an error
	Context    string // Type of the description the specification belongs to
}

// RunState is the verdict of a whole run
type RunState int

const (
	RunStateNoTests RunState = iota
	RunStateSuccess
	RunStateFailure
)

// String returns a human-readable label for the run state.
func (s RunState) String() string {
	switch s {
	case RunStateNoTests:
		return "no tests"
	case RunStateSuccess:
		return "success"
	case RunStateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Combine merges the verdicts of two runs. Failure wins over success, success over no tests.
func (s RunState) Combine(other RunState) RunState {
	if other > s {
		return other
	}
	return s
}

// ResultRecord is a persisted TestResult
type ResultRecord struct {
	ID         int64  `json:"id,omitempty"`
	Context    string `json:"context"`
	Name       string `json:"name"`
	State      string `json:"state"`
	StackTrace string `json:"stack_trace,omitempty"`
	Resolved   bool   `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}

// Failed reports whether the record is a failed specification
func (r ResultRecord) Failed() bool {
	return r.State == TestStateFailed.String()
}

// RunReport is the persisted outcome of one CLI run
type RunReport struct {
	RunID           string         `json:"run_id"`
	Timestamp       string         `json:"timestamp"`
	Duration        string         `json:"duration"`
	DurationSeconds float64        `json:"duration_seconds"`
	State           string         `json:"state"`
	Assemblies      []string       `json:"assemblies"`
	Results         []ResultRecord `json:"results"`
}

// NewRunReport builds a report from finished results
func NewRunReport(runID string, state RunState, assemblies []string, results []TestResult, duration time.Duration) *RunReport {
	report := &RunReport{
		RunID:           runID,
		Timestamp:       time.Now().Format(time.RFC3339),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		State:           state.String(),
		Assemblies:      assemblies,
		Results:         make([]ResultRecord, 0, len(results)),
	}
	for _, r := range results {
		report.Results = append(report.Results, ResultRecord{
			Context:    r.Context,
			Name:       r.Name,
			State:      r.State.String(),
			StackTrace: r.StackTrace,
		})
	}
	return report
}

// Passed returns the number of passed results
func (r *RunReport) Passed() int {
	return len(r.Results) - r.Failed()
}

// Failed returns the number of failed results
func (r *RunReport) Failed() int {
	failed := 0
	for _, rec := range r.Results {
		if rec.Failed() {
			failed++
		}
	}
	return failed
}

// Failures returns the indexes of failed results, in run order
func (r *RunReport) Failures() []int {
	var idx []int
	for i, rec := range r.Results {
		if rec.Failed() {
			idx = append(idx, i)
		}
	}
	return idx
}
