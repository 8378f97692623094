package execution

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"simple/internal/domain"
	"simple/internal/logging"
)

// Loader discovers test-class definitions under a root directory
type Loader interface {
	Load(root string) ([]domain.Definition, error)
}

// Options are the engine settings validated before a run
type Options struct {
	TestPath     string
	ThreadCount  int
	StageTimeout time.Duration
}

// Report is everything a finished run produced
type Report struct {
	Stat     domain.Stat
	Results  *Results
	Exit     domain.Exit
	Duration time.Duration
}

// Engine wires load, prepare, plan, execute and exit together
type Engine struct {
	loader Loader
	log    *logging.Logger
}

// NewEngine creates a new Engine
func NewEngine(loader Loader, log *logging.Logger) *Engine {
	return &Engine{loader: loader, log: log}
}

// Validate checks options and policies; errors wrap ErrInvalidConfig
func Validate(opts Options, policies Policies) error {
	if strings.TrimSpace(opts.TestPath) == "" {
		return invalidConfig("[testPath] must be a non-empty path")
	}
	if opts.ThreadCount < 1 {
		return invalidConfig("[threadCount] must be a positive integer, got %d", opts.ThreadCount)
	}
	return policies.validate()
}

// PlanObserver is implemented by reporter factories that need the planned
// unit count before execution starts, e.g. to size a progress bar
type PlanObserver interface {
	Planned(n int)
}

// Discover loads and prepares the tests under opts.TestPath without running
// anything
func (e *Engine) Discover(opts Options) ([]domain.PreparedTest, domain.Stat, error) {
	var stat domain.Stat

	root, err := filepath.Abs(opts.TestPath)
	if err != nil {
		return nil, stat, fmt.Errorf("resolve test path: %w", err)
	}
	defs, err := e.loader.Load(root)
	if err != nil {
		return nil, stat, err
	}
	stat.Loaded = len(defs)

	prepared, err := NewPreparer(e.log, opts.StageTimeout).Prepare(defs)
	if err != nil {
		return nil, stat, err
	}
	stat.Prepared = len(prepared)
	return prepared, stat, nil
}

// Run executes the whole pipeline. Only configuration and discovery errors
// are returned; test failures are reported through Report.Exit.
func (e *Engine) Run(ctx context.Context, opts Options, policies Policies) (*Report, error) {
	if err := Validate(opts, policies); err != nil {
		return nil, err
	}
	start := time.Now()

	prepared, stat, err := e.Discover(opts)
	if err != nil {
		return nil, err
	}

	queue, err := Plan(policies.Schedule, prepared)
	if err != nil {
		return nil, err
	}
	stat.Planned = queue.Len()
	e.log.Debug("Pipeline prepared", "loaded", stat.Loaded, "prepared", stat.Prepared, "planned", stat.Planned)
	if obs, ok := policies.Report.(PlanObserver); ok {
		obs.Planned(stat.Planned)
	}

	results := NewExecutor(opts.ThreadCount, policies, e.log).Execute(ctx, queue)
	stat.Executed = results.Len()

	return &Report{
		Stat:     stat,
		Results:  results,
		Exit:     policies.Exit.Exit(results, stat),
		Duration: time.Since(start),
	}, nil
}
