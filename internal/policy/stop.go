package policy

import (
	"simple/internal/domain"
	"simple/internal/execution"
)

// Never keeps every worker running until the queue is empty
var Never = execution.StopFunc(func(domain.TestResult) bool { return false })

// FailFast stops the worker that saw a broken or failed test. Other workers
// keep draining the queue until they hit one themselves.
var FailFast = execution.StopFunc(func(result domain.TestResult) bool {
	return domain.Classify(result) != domain.StatusPassed
})
