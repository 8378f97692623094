package policy

import (
	"simple/internal/domain"
	"simple/internal/execution"
)

type silentReporter struct{}

func (silentReporter) TestStarted(domain.Properties)  {}
func (silentReporter) TestFinished(domain.TestResult) {}

// Silent reports nothing
var Silent = execution.ReportFunc(func(int, domain.Properties) execution.Reporter {
	return silentReporter{}
})

type multiReporter []execution.Reporter

func (m multiReporter) TestStarted(props domain.Properties) {
	for _, r := range m {
		r.TestStarted(props)
	}
}

func (m multiReporter) TestFinished(result domain.TestResult) {
	for _, r := range m {
		r.TestFinished(result)
	}
}

type multiFactory []execution.ReporterFactory

func (m multiFactory) Report(workerID int, props domain.Properties) execution.Reporter {
	reporters := make(multiReporter, 0, len(m))
	for _, f := range m {
		reporters = append(reporters, f.Report(workerID, props))
	}
	return reporters
}

// Planned forwards the planned count to every factory that wants it
func (m multiFactory) Planned(n int) {
	for _, f := range m {
		if obs, ok := f.(execution.PlanObserver); ok {
			obs.Planned(n)
		}
	}
}

// Multi fans every notification out to all factories' reporters
func Multi(factories ...execution.ReporterFactory) execution.ReporterFactory {
	return multiFactory(factories)
}
