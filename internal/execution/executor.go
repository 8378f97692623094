package execution

import (
	"context"
	"sync"

	"simple/internal/domain"
	"simple/internal/logging"
)

// Executor runs a plan with a fixed number of workers draining one queue
type Executor struct {
	threadCount int
	policies    Policies
	log         *logging.Logger
}

// NewExecutor creates a new Executor
func NewExecutor(threadCount int, policies Policies, log *logging.Logger) *Executor {
	if threadCount <= 0 {
		threadCount = 1
	}
	return &Executor{
		threadCount: threadCount,
		policies:    policies,
		log:         log,
	}
}

// Execute starts all workers and returns once each of them has found the
// queue empty or was stopped by the stop policy
func (e *Executor) Execute(ctx context.Context, queue *Queue) *Results {
	results := NewResults()

	e.log.Info("Starting execution", "planned", queue.Len(), "workers", e.threadCount)

	var wg sync.WaitGroup
	for i := 1; i <= e.threadCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			e.work(ctx, workerID, queue, results)
		}(i)
	}
	wg.Wait()

	e.log.Info("Execution finished", "executed", results.Len())
	return results
}

func (e *Executor) work(ctx context.Context, workerID int, queue *Queue, results *Results) {
	log := e.log.With("worker", workerID)
	log.Debug("Worker starting")

	executed := 0
	defer func() { log.Debug("Worker exiting", "executed", executed) }()

	for {
		test, ok := queue.Pop()
		if !ok {
			return
		}

		reporter := e.policies.Report.Report(workerID, test.Properties)
		deps := e.policies.Provide.Provide(workerID, test.Properties)
		reporter.TestStarted(test.Properties)

		result := test.Run(ctx, deps)
		result.Worker = workerID
		results.Store(result)
		executed++

		reporter.TestFinished(result)
		log.Debug("Test finished", "test", test.Properties.String(), "status", domain.Classify(result), "duration", result.Duration)

		if e.policies.Stop.Stop(result) {
			log.Info("Worker stopped by stop policy", "test", test.Properties.String())
			return
		}
		e.policies.Analyze.Analyze(test, result, queue)
	}
}
