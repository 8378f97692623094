package domain

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// AssertionError is raised by the assertion facility inside test bodies
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Assertf returns an assertion-kind failure
func Assertf(format string, args ...any) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// PanicError is a panic recovered from a lifecycle stage
type PanicError struct {
	Value any
	Stack []string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// enginePrefix marks frames of the engine itself; they are cut from stacks
const enginePrefix = "simple/internal/execution."

// Recovered turns a recovered panic value into a stage failure. Assertion
// failures raised by panicking keep their kind.
func Recovered(r any) error {
	if err, ok := r.(error); ok {
		var ae *AssertionError
		if errors.As(err, &ae) {
			return err
		}
	}
	return &PanicError{Value: r, Stack: trimStack(debug.Stack())}
}

// trimStack keeps the frames between the panic and the first engine frame
func trimStack(stack []byte) []string {
	lines := strings.Split(strings.TrimSpace(string(stack)), "\n")
	if len(lines) < 3 {
		return nil
	}
	frames := lines[1:]
	start := 0
	for i := 0; i+1 < len(frames); i += 2 {
		if strings.HasPrefix(frames[i], "panic(") {
			start = i + 2
			break
		}
	}
	var out []string
	for i := start; i+1 < len(frames); i += 2 {
		if strings.HasPrefix(frames[i], enginePrefix) {
			break
		}
		out = append(out, frames[i], frames[i+1])
	}
	return out
}

// TestFailure is the stored view of a broken or failed test
type TestFailure struct {
	ClassName  string   `json:"test_class_name"`
	TestName   string   `json:"test_name"`
	Status     Status   `json:"status"`
	Stage      string   `json:"stage"`
	Message    string   `json:"message"`
	StackTrace []string `json:"stack_trace,omitempty"`
	Worker     int      `json:"worker"`
	Resolved   bool     `json:"resolved,omitempty"`
}

// Properties returns the identity of the failed test
func (f TestFailure) Properties() Properties {
	return Properties{ClassName: f.ClassName, TestName: f.TestName}
}

// FailureOf builds the stored failure for a result, if it did not pass
func FailureOf(r TestResult) (TestFailure, bool) {
	status := Classify(r)
	if status == StatusPassed {
		return TestFailure{}, false
	}
	stage, err := r.FirstFailure()
	if status == StatusFailed {
		stage, err = "test", r.Test.Err
	}
	f := TestFailure{
		ClassName: r.Properties.ClassName,
		TestName:  r.Properties.TestName,
		Status:    status,
		Stage:     stage,
		Worker:    r.Worker,
	}
	if err != nil {
		f.Message = err.Error()
		var pe *PanicError
		if errors.As(err, &pe) {
			f.StackTrace = pe.Stack
		}
	}
	return f, true
}
