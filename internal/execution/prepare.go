package execution

import (
	"context"
	"fmt"
	"time"

	"simple/internal/domain"
	"simple/internal/logging"
)

// Preparer turns test-class definitions into runnable units
type Preparer struct {
	log          *logging.Logger
	stageTimeout time.Duration
}

// NewPreparer creates a Preparer. A positive stageTimeout bounds the context
// handed to every lifecycle stage.
func NewPreparer(log *logging.Logger, stageTimeout time.Duration) *Preparer {
	return &Preparer{log: log, stageTimeout: stageTimeout}
}

// Prepare instantiates every definition once and wraps each of its tests.
// A failing constructor or factory aborts; a factory that does not return a
// test body only drops that test.
func (p *Preparer) Prepare(defs []domain.Definition) ([]domain.PreparedTest, error) {
	var prepared []domain.PreparedTest
	for _, def := range defs {
		tests, err := p.prepareClass(def)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, tests...)
	}
	return prepared, nil
}

func (p *Preparer) prepareClass(def domain.Definition) ([]domain.PreparedTest, error) {
	suite, err := construct(def)
	if err != nil {
		return nil, fmt.Errorf("construct test class %s: %w", def.Name, err)
	}
	if suite == nil {
		return nil, fmt.Errorf("construct test class %s: constructor returned no suite", def.Name)
	}
	before, _ := suite.(domain.BeforeEacher)
	after, _ := suite.(domain.AfterEacher)

	var prepared []domain.PreparedTest
	for _, c := range suite.Tests() {
		if isReserved(c.Name) {
			continue
		}
		props := domain.Properties{ClassName: def.Name, TestName: c.Name}
		if c.Method == nil {
			p.log.Warn("Test has no method, skipping", "test", props.String(), "source", def.Source)
			continue
		}
		factoryResult, err := invokeFactory(c.Method, props)
		if err != nil {
			return nil, err
		}
		body, ok := domain.AsBody(factoryResult)
		if !ok {
			p.log.Warn("Test method did not return a test body, skipping",
				"test", props.String(), "source", def.Source, "returned", fmt.Sprintf("%T", factoryResult))
			continue
		}
		prepared = append(prepared, p.wrap(props, body, before, after))
	}
	return prepared, nil
}

func isReserved(name string) bool {
	return name == domain.BeforeEachName || name == domain.AfterEachName || name == domain.ConstructorName
}

func construct(def domain.Definition) (suite domain.Suite, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.Recovered(r)
		}
	}()
	return def.New(domain.ClassProperties{ClassName: def.Name})
}

func invokeFactory(method domain.Method, props domain.Properties) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("test method %s: %w", props, domain.Recovered(r))
		}
	}()
	return method(props), nil
}

// wrap builds the before/test/after sequence. Every stage is isolated: its
// error or panic is captured in the result and never escapes.
func (p *Preparer) wrap(props domain.Properties, body domain.Body, before domain.BeforeEacher, after domain.AfterEacher) domain.PreparedTest {
	run := func(ctx context.Context, deps domain.Dependencies) domain.TestResult {
		start := time.Now()
		result := domain.TestResult{Properties: props}

		if before != nil {
			result.BeforeEach = p.stage(ctx, func(ctx context.Context) (any, error) {
				return before.BeforeEach(ctx, domain.HookContext{Properties: props, Provided: deps})
			})
		}
		if !result.BeforeEach.Failed() {
			result.Test = p.stage(ctx, func(ctx context.Context) (any, error) {
				return body(ctx, deps)
			})
		}
		if after != nil {
			result.AfterEach = p.stage(ctx, func(ctx context.Context) (any, error) {
				return after.AfterEach(ctx, domain.HookContext{
					Properties: props,
					Provided:   deps,
					BeforeEach: result.BeforeEach,
					Test:       result.Test,
				})
			})
		}

		result.Duration = time.Since(start)
		return result
	}
	return domain.PreparedTest{Properties: props, Run: run}
}

func (p *Preparer) stage(ctx context.Context, fn func(ctx context.Context) (any, error)) (out domain.Outcome) {
	if p.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			out = domain.Err(domain.Recovered(r))
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		return domain.Err(err)
	}
	return domain.Ok(v)
}
