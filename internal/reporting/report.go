package reporting

import "time"

// Status is the outcome of one scenario.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	// StatusXFailed is a scenario expected to fail that did fail.
	StatusXFailed Status = "xfailed"
	// StatusXPassed is a scenario expected to fail that passed.
	StatusXPassed Status = "xpassed"
)

// CaseResult is the record of a single scenario run.
type CaseResult struct {
	Name     string        `json:"name"`
	Tags     []string      `json:"tags,omitempty"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
	// Reason carries the skip or expected-failure reason.
	Reason string `json:"reason,omitempty"`
	// Screenshot is the path of the failure capture, if any.
	Screenshot string `json:"screenshot,omitempty"`
}

// RunReport is everything a reporter renders for one run.
type RunReport struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Env   string       `json:"env"`
	Scope string       `json:"scope"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
	Cases []CaseResult `json:"cases"`
}

// Summary counts outcomes.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	XFailed int `json:"xfailed"`
	XPassed int `json:"xpassed"`
}

func (r *RunReport) Summary() Summary {
	s := Summary{Total: len(r.Cases)}
	for _, c := range r.Cases {
		switch c.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusXFailed:
			s.XFailed++
		case StatusXPassed:
			s.XPassed++
		}
	}
	return s
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// HardFailures counts failed scenarios. Expected failures do not count.
func (r *RunReport) HardFailures() int {
	return r.Summary().Failed
}
