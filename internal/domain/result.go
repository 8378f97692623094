package domain

import (
	"errors"
	"time"
)

// OutcomeState tags a stage slot
type OutcomeState int

const (
	StateNotRun OutcomeState = iota
	StateOK
	StateFailed
)

// String provides a string representation of OutcomeState
func (s OutcomeState) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateFailed:
		return "error"
	default:
		return "not-run"
	}
}

// Outcome holds what one lifecycle stage produced. The zero value means the
// stage never ran.
type Outcome struct {
	State OutcomeState
	Value any
	Err   error
}

// Ok returns a successful outcome
func Ok(v any) Outcome {
	return Outcome{State: StateOK, Value: v}
}

// Err returns a failed outcome
func Err(err error) Outcome {
	return Outcome{State: StateFailed, Err: err}
}

func (o Outcome) Ran() bool    { return o.State != StateNotRun }
func (o Outcome) Failed() bool { return o.State == StateFailed }

// IsAssertion reports whether the stage failed with an assertion-kind failure
func (o Outcome) IsAssertion() bool {
	if !o.Failed() {
		return false
	}
	var ae *AssertionError
	return errors.As(o.Err, &ae)
}

// TestResult is the outcome of a single prepared test
type TestResult struct {
	Properties Properties
	BeforeEach Outcome
	Test       Outcome
	AfterEach  Outcome
	Worker     int
	Duration   time.Duration
}

// FirstFailure returns the earliest failed stage name and its error
func (r TestResult) FirstFailure() (string, error) {
	switch {
	case r.BeforeEach.Failed():
		return BeforeEachName, r.BeforeEach.Err
	case r.Test.Failed():
		return "test", r.Test.Err
	case r.AfterEach.Failed():
		return AfterEachName, r.AfterEach.Err
	}
	return "", nil
}

// Status is the classification of a TestResult
type Status string

const (
	StatusPassed Status = "passed"
	StatusBroken Status = "broken"
	StatusFailed Status = "failed"
)

// Classify maps a result to exactly one status. An assertion failure in the
// test stage wins over failures in the hooks.
func Classify(r TestResult) Status {
	if r.Test.IsAssertion() {
		return StatusFailed
	}
	if r.BeforeEach.Failed() || r.Test.Failed() || r.AfterEach.Failed() {
		return StatusBroken
	}
	return StatusPassed
}

// Stat counts units at each pipeline phase
type Stat struct {
	Loaded   int `json:"loaded"`
	Prepared int `json:"prepared"`
	Planned  int `json:"planned"`
	Executed int `json:"executed"`
}

// Summary counts classified results
type Summary struct {
	Passed int `json:"passed"`
	Broken int `json:"broken"`
	Failed int `json:"failed"`
}

// Add counts one more result with the given status
func (s *Summary) Add(status Status) {
	switch status {
	case StatusPassed:
		s.Passed++
	case StatusBroken:
		s.Broken++
	case StatusFailed:
		s.Failed++
	}
}

// Status is 1 when anything broke or failed, else 0
func (s Summary) Status() int {
	if s.Failed > 0 || s.Broken > 0 {
		return 1
	}
	return 0
}

// Exit is what the exit policy returns
type Exit struct {
	Status  int     `json:"status"`
	Summary Summary `json:"summary"`
}
