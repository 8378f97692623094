package domain

import "context"

// HookFunc is a lifecycle hook implementation
type HookFunc func(ctx context.Context, hc HookContext) (any, error)

type caseList []Case

func (c caseList) Tests() []Case { return c }

type beforeSuite struct {
	caseList
	before HookFunc
}

func (s beforeSuite) BeforeEach(ctx context.Context, hc HookContext) (any, error) {
	return s.before(ctx, hc)
}

type afterSuite struct {
	caseList
	after HookFunc
}

func (s afterSuite) AfterEach(ctx context.Context, hc HookContext) (any, error) {
	return s.after(ctx, hc)
}

type hookedSuite struct {
	caseList
	before HookFunc
	after  HookFunc
}

func (s hookedSuite) BeforeEach(ctx context.Context, hc HookContext) (any, error) {
	return s.before(ctx, hc)
}

func (s hookedSuite) AfterEach(ctx context.Context, hc HookContext) (any, error) {
	return s.after(ctx, hc)
}

// NewSuite builds a Suite from explicit parts. A nil hook means the suite
// does not have that capability.
func NewSuite(cases []Case, before, after HookFunc) Suite {
	base := caseList(cases)
	switch {
	case before != nil && after != nil:
		return hookedSuite{caseList: base, before: before, after: after}
	case before != nil:
		return beforeSuite{caseList: base, before: before}
	case after != nil:
		return afterSuite{caseList: base, after: after}
	}
	return base
}
