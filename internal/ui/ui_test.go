package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple/internal/domain"
	"simple/internal/execution"
	"simple/internal/logging"
)

func init() {
	color.NoColor = true
}

func props(class, test string) domain.Properties {
	return domain.Properties{ClassName: class, TestName: test}
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleReporter(&buf)

	results := []domain.TestResult{
		{Properties: props("Math", "add"), BeforeEach: domain.Ok(nil), Test: domain.Ok(2), AfterEach: domain.Ok(nil)},
		{Properties: props("Math", "div"), Test: domain.Err(domain.Assertf("expected 2, got 3"))},
		{Properties: props("Net", "dial"), BeforeEach: domain.Err(errors.New("connection refused"))},
	}
	for _, r := range results {
		rep := c.Report(1, r.Properties)
		rep.TestStarted(r.Properties)
		rep.TestFinished(r)
	}

	out := buf.String()
	assert.Contains(t, out, "Math.add : passed\n")
	assert.Contains(t, out, "Math.div : failed\nexpected 2, got 3\n")
	assert.Contains(t, out, "Net.dial : broken\n[beforeEach] connection refused\n")
}

func TestProgressReporter_CountsAndGrows(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf, 0)
	p.Planned(2)

	finish := func(r domain.TestResult) {
		rep := p.Report(1, r.Properties)
		rep.TestStarted(r.Properties)
		rep.TestFinished(r)
	}
	finish(domain.TestResult{Properties: props("A", "a"), Test: domain.Ok(nil)})
	finish(domain.TestResult{Properties: props("A", "b"), Test: domain.Err(errors.New("boom"))})
	finish(domain.TestResult{Properties: props("A", "b"), Test: domain.Err(domain.Assertf("no"))})
	p.Finish()

	assert.Equal(t, domain.Summary{Passed: 1, Broken: 1, Failed: 1}, p.Summary())
}

func TestFormatter_PrintHeaderAndFooter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.PrintHeader("1.0")
	f.PrintFooter(&execution.Report{
		Stat:     domain.Stat{Loaded: 2, Prepared: 5, Planned: 4, Executed: 4},
		Exit:     domain.Exit{Status: 1, Summary: domain.Summary{Passed: 2, Broken: 1, Failed: 1}},
		Duration: 1250 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "|  Simple Test Automation Framework v1.0  |")
	for _, want := range []string{
		"Loaded:    2 classes",
		"Prepared:  5 tests",
		"Planned:   4 tests",
		"Executed:  4 tests",
		"Passed:    2 tests",
		"Broken:    1 tests",
		"Failed:    1 tests",
		"Duration:  1.25s",
		"Exit code: 1",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatter_PrintSuiteList(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	tests := []domain.PreparedTest{
		{Properties: props("Math", "add")},
		{Properties: props("Math", "div")},
		{Properties: props("Net", "dial")},
	}
	f.PrintSuiteList(tests, map[domain.Properties]struct{}{props("Math", "div"): {}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Found 3 test(s) in 2 class(es):", lines[0])
	assert.Equal(t, "├── Math [F]", lines[1])
	assert.Equal(t, "│   ├── add", lines[2])
	assert.Equal(t, "│   └── div [F]", lines[3])
	assert.Equal(t, "└── Net", lines[4])
	assert.Equal(t, "    └── dial", lines[5])
}

func TestFormatter_PrintLastRun(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.PrintLastRun(&domain.RunOutput{
		Meta: domain.RunMeta{RunID: "run-1", Workers: 3, Summary: domain.Summary{Passed: 4, Failed: 1}, Status: 1},
		Details: []domain.TestFailure{
			{ClassName: "Math", TestName: "div", Status: domain.StatusFailed},
			{ClassName: "Math", TestName: "mod", Status: domain.StatusBroken, Resolved: true},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "✗ 1 unresolved failure(s)")
	assert.Contains(t, out, "└── div (failed)")
	assert.NotContains(t, out, "mod")

	buf.Reset()
	f.PrintLastRun(&domain.RunOutput{})
	assert.Contains(t, buf.String(), "No unresolved failures")
}

type recordingSaver struct {
	saved int
	err   error
}

func (r *recordingSaver) SaveOutput(*domain.RunOutput) error {
	r.saved++
	return r.err
}

func TestFailureViewer_Toggle(t *testing.T) {
	saver := &recordingSaver{}
	fv := NewFailureViewer(saver, &bytes.Buffer{}, logging.NewNop())
	output := &domain.RunOutput{Details: []domain.TestFailure{{ClassName: "A", TestName: "x"}}}

	fv.toggle(output, 0)
	assert.True(t, output.Details[0].Resolved)
	assert.Contains(t, headerText(output), "1 total, 0 unresolved")
	assert.Contains(t, listItemText(output.Details[0], 0), "✓")

	saver.err = errors.New("disk full")
	fv.toggle(output, 0)
	assert.False(t, output.Details[0].Resolved)
	assert.Equal(t, 2, saver.saved)
}

func TestFailureViewer_NoFailures(t *testing.T) {
	var buf bytes.Buffer
	fv := NewFailureViewer(&recordingSaver{}, &buf, logging.NewNop())
	require.NoError(t, fv.View(&domain.RunOutput{}))
	assert.Contains(t, buf.String(), "No test failures found!")
}

func TestFormatFailureDetails(t *testing.T) {
	stack := make([]string, 14)
	for i := range stack {
		stack[i] = "frame"
	}
	details := formatFailureDetails(domain.TestFailure{
		ClassName:  "A",
		TestName:   "x",
		Stage:      "afterEach",
		Message:    "panic: [boom]",
		StackTrace: stack,
	})

	assert.Contains(t, details, "A.x")
	assert.Contains(t, details, "Stage:[white] afterEach")
	assert.Contains(t, details, "... and 4 more lines")
	assert.Equal(t, maxStackLines, strings.Count(details, "  frame\n"))
	assert.Contains(t, formatFailureStats(domain.TestFailure{ClassName: "A", TestName: "x", Status: domain.StatusFailed}), "[red]failed")
}
