package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"simple/internal/domain"
	"simple/internal/execution"
)

var (
	passedColor = color.New(color.FgGreen)
	brokenColor = color.New(color.FgYellow)
	failedColor = color.New(color.FgRed)
)

func statusColor(s domain.Status) *color.Color {
	switch s {
	case domain.StatusFailed:
		return failedColor
	case domain.StatusBroken:
		return brokenColor
	default:
		return passedColor
	}
}

// ConsoleReporter prints one line per finished test, followed by the failure
// message and stack for broken and failed tests
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleReporter creates a reporter writing to w
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// Report implements execution.ReporterFactory
func (c *ConsoleReporter) Report(int, domain.Properties) execution.Reporter {
	return consoleTest{c}
}

type consoleTest struct {
	c *ConsoleReporter
}

func (consoleTest) TestStarted(domain.Properties) {}

func (t consoleTest) TestFinished(result domain.TestResult) {
	t.c.print(result)
}

func (c *ConsoleReporter) print(result domain.TestResult) {
	status := domain.Classify(result)
	var b strings.Builder
	fmt.Fprintf(&b, "%s : %s\n", result.Properties, statusColor(status).Sprint(status))
	if f, ok := domain.FailureOf(result); ok {
		b.WriteString(statusColor(status).Sprint(formatFailure(f)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.w, b.String())
}

// formatFailure renders the failed stage, message and trimmed stack
func formatFailure(f domain.TestFailure) string {
	var b strings.Builder
	if f.Stage != "test" {
		fmt.Fprintf(&b, "[%s] ", f.Stage)
	}
	b.WriteString(f.Message)
	b.WriteString("\n")
	for _, line := range f.StackTrace {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
