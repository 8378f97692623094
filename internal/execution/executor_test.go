package execution

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple/internal/domain"
	"simple/internal/logging"
)

type nopReporter struct{}

func (nopReporter) TestStarted(domain.Properties)  {}
func (nopReporter) TestFinished(domain.TestResult) {}

func testPolicies() Policies {
	return Policies{
		Schedule: ScheduleFunc(func(t []domain.PreparedTest) ([]domain.PreparedTest, error) { return t, nil }),
		Analyze:  AnalyzeFunc(func(domain.PreparedTest, domain.TestResult, *Queue) {}),
		Stop:     StopFunc(func(domain.TestResult) bool { return false }),
		Provide: ProvideFunc(func(int, domain.Properties) domain.Dependencies {
			return domain.Dependencies{}
		}),
		Report: ReportFunc(func(int, domain.Properties) Reporter { return nopReporter{} }),
		Exit:   ExitFunc(DefaultExit),
	}
}

func unit(class, name string, fn func() domain.Outcome) domain.PreparedTest {
	props := domain.Properties{ClassName: class, TestName: name}
	return domain.PreparedTest{
		Properties: props,
		Run: func(context.Context, domain.Dependencies) domain.TestResult {
			return domain.TestResult{Properties: props, Test: fn()}
		},
	}
}

func TestExecute_EveryUnitExactlyOnce(t *testing.T) {
	const units = 200
	for _, workers := range []int{1, 3, 8, 32} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			counts := make([]atomic.Int32, units)
			var tests []domain.PreparedTest
			for i := 0; i < units; i++ {
				i := i
				delay := time.Duration(rand.IntN(500)) * time.Microsecond
				tests = append(tests, unit("Fuzz", fmt.Sprintf("t%03d", i), func() domain.Outcome {
					counts[i].Add(1)
					time.Sleep(delay)
					return domain.Ok(nil)
				}))
			}

			results := NewExecutor(workers, testPolicies(), logging.NewNop()).Execute(context.Background(), NewQueue(tests))

			assert.Equal(t, units, results.Len())
			for i := range counts {
				assert.Equal(t, int32(1), counts[i].Load(), "unit %d", i)
			}
		})
	}
}

func TestExecute_WorkersRunConcurrently(t *testing.T) {
	var running, peak atomic.Int32
	var tests []domain.PreparedTest
	for i := 0; i < 8; i++ {
		tests = append(tests, unit("Par", fmt.Sprintf("t%d", i), func() domain.Outcome {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return domain.Ok(nil)
		}))
	}

	NewExecutor(4, testPolicies(), logging.NewNop()).Execute(context.Background(), NewQueue(tests))
	assert.Greater(t, peak.Load(), int32(1))
	assert.LessOrEqual(t, peak.Load(), int32(4))
}

func TestExecute_AnalyzeCanPushWork(t *testing.T) {
	extra := unit("Extra", "pushed", func() domain.Outcome { return domain.Ok("extra") })
	var once sync.Once

	policies := testPolicies()
	policies.Analyze = AnalyzeFunc(func(test domain.PreparedTest, result domain.TestResult, queue *Queue) {
		if test.Properties.ClassName == "A" {
			once.Do(func() { queue.Push(extra) })
		}
	})

	tests := []domain.PreparedTest{
		unit("A", "one", func() domain.Outcome { return domain.Ok(nil) }),
		unit("A", "two", func() domain.Outcome { return domain.Ok(nil) }),
	}
	results := NewExecutor(2, policies, logging.NewNop()).Execute(context.Background(), NewQueue(tests))

	got, ok := results.Get(extra.Properties)
	require.True(t, ok, "pushed unit must be executed")
	assert.Equal(t, "extra", got.Test.Value)
	assert.Equal(t, 3, results.Len())
}

func TestExecute_StopHaltsOnlyThatWorker(t *testing.T) {
	stopper := unit("Stop", "first", func() domain.Outcome {
		time.Sleep(5 * time.Millisecond)
		return domain.Err(errors.New("stop here"))
	})
	tests := []domain.PreparedTest{stopper}
	for i := 0; i < 20; i++ {
		tests = append(tests, unit("Rest", fmt.Sprintf("t%d", i), func() domain.Outcome {
			time.Sleep(time.Millisecond)
			return domain.Ok(nil)
		}))
	}

	policies := testPolicies()
	policies.Stop = StopFunc(func(r domain.TestResult) bool { return r.Test.Failed() })

	results := NewExecutor(2, policies, logging.NewNop()).Execute(context.Background(), NewQueue(tests))
	require.Equal(t, len(tests), results.Len(), "the other worker drains the queue")

	stopped, _ := results.Get(stopper.Properties)
	perWorker := map[int]int{}
	for _, r := range results.All() {
		perWorker[r.Worker]++
	}
	assert.Equal(t, 1, perWorker[stopped.Worker], "stopped worker takes no more work")
}

func TestExecute_StopWithSingleWorker(t *testing.T) {
	policies := testPolicies()
	policies.Stop = StopFunc(func(domain.TestResult) bool { return true })

	tests := []domain.PreparedTest{
		unit("A", "one", func() domain.Outcome { return domain.Ok(nil) }),
		unit("A", "two", func() domain.Outcome { return domain.Ok(nil) }),
	}
	queue := NewQueue(tests)
	results := NewExecutor(1, policies, logging.NewNop()).Execute(context.Background(), queue)
	assert.Equal(t, 1, results.Len())
	assert.Equal(t, 1, queue.Len())
}

func TestExecute_StopIsCheckedBeforeAnalyze(t *testing.T) {
	var analyzed atomic.Int32
	policies := testPolicies()
	policies.Stop = StopFunc(func(domain.TestResult) bool { return true })
	policies.Analyze = AnalyzeFunc(func(domain.PreparedTest, domain.TestResult, *Queue) { analyzed.Add(1) })

	NewExecutor(1, policies, logging.NewNop()).Execute(context.Background(),
		NewQueue([]domain.PreparedTest{unit("A", "one", func() domain.Outcome { return domain.Ok(nil) })}))
	assert.Equal(t, int32(0), analyzed.Load())
}

type recordingReporter struct {
	mu     *sync.Mutex
	events *[]string
}

func (r recordingReporter) TestStarted(p domain.Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.events = append(*r.events, "started "+p.String())
}

func (r recordingReporter) TestFinished(res domain.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.events = append(*r.events, "finished "+res.Properties.String())
}

func TestExecute_ReportAndProvidePerTest(t *testing.T) {
	var mu sync.Mutex
	var events []string
	var provided atomic.Int32

	policies := testPolicies()
	policies.Report = ReportFunc(func(int, domain.Properties) Reporter {
		return recordingReporter{mu: &mu, events: &events}
	})
	policies.Provide = ProvideFunc(func(workerID int, p domain.Properties) domain.Dependencies {
		provided.Add(1)
		return domain.Dependencies{"worker": workerID, "test": p.TestName}
	})

	var seen domain.Dependencies
	props := domain.Properties{ClassName: "A", TestName: "one"}
	test := domain.PreparedTest{
		Properties: props,
		Run: func(_ context.Context, deps domain.Dependencies) domain.TestResult {
			seen = deps
			return domain.TestResult{Properties: props, Test: domain.Ok(nil)}
		},
	}

	results := NewExecutor(1, policies, logging.NewNop()).Execute(context.Background(), NewQueue([]domain.PreparedTest{test}))
	assert.Equal(t, []string{"started A.one", "finished A.one"}, events)
	assert.Equal(t, int32(1), provided.Load())
	assert.Equal(t, domain.Dependencies{"worker": 1, "test": "one"}, seen)

	got, _ := results.Get(props)
	assert.Equal(t, 1, got.Worker)
}

func TestExecute_LastWriteWins(t *testing.T) {
	n := 0
	flaky := unit("A", "flaky", func() domain.Outcome {
		n++
		if n == 1 {
			return domain.Err(errors.New("first attempt"))
		}
		return domain.Ok(nil)
	})

	policies := testPolicies()
	policies.Analyze = AnalyzeFunc(func(test domain.PreparedTest, result domain.TestResult, queue *Queue) {
		if result.Test.Failed() {
			queue.Push(test)
		}
	})

	results := NewExecutor(1, policies, logging.NewNop()).Execute(context.Background(), NewQueue([]domain.PreparedTest{flaky}))
	assert.Equal(t, 1, results.Len())
	got, _ := results.Get(flaky.Properties)
	assert.False(t, got.Test.Failed())
}
