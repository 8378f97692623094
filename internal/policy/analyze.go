package policy

import (
	"sync"

	"simple/internal/domain"
	"simple/internal/execution"
	"simple/internal/logging"
)

// Noop never touches the queue
var Noop = execution.AnalyzeFunc(func(domain.PreparedTest, domain.TestResult, *execution.Queue) {})

// Retry pushes broken or failed tests back onto the queue, at most max extra
// attempts per test. The last attempt's result is the one that is kept.
type Retry struct {
	max      int
	log      *logging.Logger
	mu       sync.Mutex
	attempts map[domain.Properties]int
}

// NewRetry creates a new Retry
func NewRetry(max int, log *logging.Logger) *Retry {
	return &Retry{
		max:      max,
		log:      log,
		attempts: make(map[domain.Properties]int),
	}
}

// Analyze implements execution.Analyzer
func (r *Retry) Analyze(test domain.PreparedTest, result domain.TestResult, queue *execution.Queue) {
	if domain.Classify(result) == domain.StatusPassed {
		return
	}

	r.mu.Lock()
	n := r.attempts[test.Properties]
	if n >= r.max {
		r.mu.Unlock()
		return
	}
	r.attempts[test.Properties] = n + 1
	r.mu.Unlock()

	r.log.Info("Retrying test", "test", test.Properties.String(), "retry", n+1, "max", r.max)
	queue.Push(test)
}

// Retries returns how many times props was pushed back
func (r *Retry) Retries(props domain.Properties) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[props]
}
