// File: internal/reporting/report.go
//
// The report model produced by a runner execution and consumed by the
// format-specific writers. All fields are plain data so every writer can
// share one structure.
package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Status classifies the outcome of a step or script.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Report is the result of one runner invocation across one or more scripts.
type Report struct {
	ID       string         `json:"id"`
	Tool     string         `json:"tool"`
	Version  string         `json:"version"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
	Scripts  []ScriptResult `json:"scripts"`
}

// ScriptResult is the outcome of one test script.
type ScriptResult struct {
	Name       string        `json:"name"`
	File       string        `json:"file"`
	Status     Status        `json:"status"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Screenshot string        `json:"screenshot,omitempty"`
	Steps      []StepResult  `json:"steps"`
}

// StepResult is the outcome of one step, including the resolution provenance
// when an element lookup was involved.
type StepResult struct {
	Index      int           `json:"index"`
	Action     string        `json:"action"`
	Target     string        `json:"target,omitempty"`
	Status     Status        `json:"status"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Strategy   string        `json:"strategy,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
}

// Passed reports whether every script passed.
func (r *Report) Passed() bool {
	for _, s := range r.Scripts {
		if s.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Counts returns the number of passed, failed and skipped scripts.
func (r *Report) Counts() (passed, failed, skipped int) {
	for _, s := range r.Scripts {
		switch s.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return passed, failed, skipped
}

// Writer serializes a report into one output format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// NewWriter returns the writer for a format name.
func NewWriter(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONWriter{Indent: true}, nil
	case "html":
		return &HTMLWriter{}, nil
	case "junit":
		return &JUnitWriter{}, nil
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}
