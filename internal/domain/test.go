package domain

import (
	"context"
	"fmt"
	"sort"
)

// Reserved entry names that are never treated as tests
const (
	BeforeEachName  = "beforeEach"
	AfterEachName   = "afterEach"
	ConstructorName = "constructor"
)

// Properties identifies a single test within a run
type Properties struct {
	ClassName string `json:"test_class_name"`
	TestName  string `json:"test_name"`
}

// String returns the "Class.test" form used in output and filters
func (p Properties) String() string {
	return p.ClassName + "." + p.TestName
}

// ClassProperties is handed to a suite constructor
type ClassProperties struct {
	ClassName string
}

// Dependencies are injected into every stage of a test by the provide policy
type Dependencies map[string]any

// Environ returns the scalar dependencies as sorted KEY=value pairs
func (d Dependencies) Environ() []string {
	var env []string
	for key, value := range d {
		switch v := value.(type) {
		case string:
			env = append(env, key+"="+v)
		case int, int64, bool:
			env = append(env, fmt.Sprintf("%s=%v", key, v))
		case fmt.Stringer:
			env = append(env, key+"="+v.String())
		}
	}
	sort.Strings(env)
	return env
}

// Body is the assertable part of a test
type Body func(ctx context.Context, deps Dependencies) (any, error)

// Method is a test body factory: invoked once per test with its properties,
// it may do setup and must return something AsBody accepts
type Method func(props Properties) any

// AsBody converts a factory result into a Body
func AsBody(v any) (Body, bool) {
	switch fn := v.(type) {
	case Body:
		return fn, fn != nil
	case func(context.Context, Dependencies) (any, error):
		return Body(fn), fn != nil
	case func(context.Context, Dependencies) error:
		if fn == nil {
			return nil, false
		}
		return func(ctx context.Context, deps Dependencies) (any, error) {
			return nil, fn(ctx, deps)
		}, true
	}
	return nil, false
}

// Case is a named test entry of a suite
type Case struct {
	Name   string
	Method Method
}

// Suite is an instantiated test class
type Suite interface {
	Tests() []Case
}

// HookContext is passed to lifecycle hooks. BeforeEach and Test are only
// populated for afterEach.
type HookContext struct {
	Properties Properties
	Provided   Dependencies
	BeforeEach Outcome
	Test       Outcome
}

// BeforeEacher is implemented by suites with a beforeEach hook
type BeforeEacher interface {
	BeforeEach(ctx context.Context, hc HookContext) (any, error)
}

// AfterEacher is implemented by suites with an afterEach hook
type AfterEacher interface {
	AfterEach(ctx context.Context, hc HookContext) (any, error)
}

// Definition is a discovered test class
type Definition struct {
	Name   string
	Source string
	New    func(cp ClassProperties) (Suite, error)
}

// IsClass reports whether the definition is named and constructible
func (d Definition) IsClass() bool {
	return d.Name != "" && d.New != nil
}

// PreparedTest is a runnable unit: Run executes beforeEach, the test and
// afterEach and never panics
type PreparedTest struct {
	Properties Properties
	Run        func(ctx context.Context, deps Dependencies) TestResult
}
