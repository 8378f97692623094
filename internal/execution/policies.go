package execution

import "simple/internal/domain"

// Scheduler turns the prepared tests into the execution plan
type Scheduler interface {
	Schedule(tests []domain.PreparedTest) ([]domain.PreparedTest, error)
}

// Analyzer inspects every finished unit and may push more work onto the queue
type Analyzer interface {
	Analyze(test domain.PreparedTest, result domain.TestResult, queue *Queue)
}

// Stopper tells a worker to stop taking work
type Stopper interface {
	Stop(result domain.TestResult) bool
}

// Provider supplies the dependencies injected into a test
type Provider interface {
	Provide(workerID int, props domain.Properties) domain.Dependencies
}

// Reporter observes a single test
type Reporter interface {
	TestStarted(props domain.Properties)
	TestFinished(result domain.TestResult)
}

// ReporterFactory hands out the reporter for a test
type ReporterFactory interface {
	Report(workerID int, props domain.Properties) Reporter
}

// Exiter computes the final outcome of a run
type Exiter interface {
	Exit(results *Results, stat domain.Stat) domain.Exit
}

// Policies is the pluggable surface of the engine
type Policies struct {
	Schedule Scheduler
	Analyze  Analyzer
	Stop     Stopper
	Provide  Provider
	Report   ReporterFactory
	Exit     Exiter
}

// ScheduleFunc adapts a function to Scheduler
type ScheduleFunc func(tests []domain.PreparedTest) ([]domain.PreparedTest, error)

func (f ScheduleFunc) Schedule(tests []domain.PreparedTest) ([]domain.PreparedTest, error) {
	return f(tests)
}

// AnalyzeFunc adapts a function to Analyzer
type AnalyzeFunc func(test domain.PreparedTest, result domain.TestResult, queue *Queue)

func (f AnalyzeFunc) Analyze(test domain.PreparedTest, result domain.TestResult, queue *Queue) {
	f(test, result, queue)
}

// StopFunc adapts a function to Stopper
type StopFunc func(result domain.TestResult) bool

func (f StopFunc) Stop(result domain.TestResult) bool {
	return f(result)
}

// ProvideFunc adapts a function to Provider
type ProvideFunc func(workerID int, props domain.Properties) domain.Dependencies

func (f ProvideFunc) Provide(workerID int, props domain.Properties) domain.Dependencies {
	return f(workerID, props)
}

// ReportFunc adapts a function to ReporterFactory
type ReportFunc func(workerID int, props domain.Properties) Reporter

func (f ReportFunc) Report(workerID int, props domain.Properties) Reporter {
	return f(workerID, props)
}

// ExitFunc adapts a function to Exiter
type ExitFunc func(results *Results, stat domain.Stat) domain.Exit

func (f ExitFunc) Exit(results *Results, stat domain.Stat) domain.Exit {
	return f(results, stat)
}

// validate checks that every policy is set
func (p Policies) validate() error {
	missing := []struct {
		name  string
		unset bool
	}{
		{"schedule", p.Schedule == nil},
		{"analyze", p.Analyze == nil},
		{"stop", p.Stop == nil},
		{"provide", p.Provide == nil},
		{"report", p.Report == nil},
		{"exit", p.Exit == nil},
	}
	for _, m := range missing {
		if m.unset {
			return invalidConfig("[%s] is not set", m.name)
		}
	}
	return nil
}
