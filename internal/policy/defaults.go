// Package policy holds the stock implementations of the engine's extension
// points: schedule, analyze, stop, provide, report and exit.
package policy

import (
	"simple/internal/execution"
)

// DefaultExit computes the summary and status 1 on any broken or failed test
var DefaultExit = execution.ExitFunc(execution.DefaultExit)

// Defaults mirrors the stock configuration: run everything in order on
// the given reporter, never retry, never stop early
func Defaults(report execution.ReporterFactory) execution.Policies {
	return execution.Policies{
		Schedule: Identity,
		Analyze:  Noop,
		Stop:     Never,
		Provide:  Empty,
		Report:   report,
		Exit:     DefaultExit,
	}
}
