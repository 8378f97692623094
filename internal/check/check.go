// Package check lets test bodies use testify's assert and require packages.
//
//	body := check.Body(func(ctx context.Context, t *check.T, deps domain.Dependencies) {
//	    require.Equal(t, 2, add(1, 1))
//	})
//
// A failed assert is recorded and the body keeps going; a failed require
// stops the body. Either way the test stage ends with a *domain.AssertionError.
package check

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stretchr/testify/require"

	"simple/internal/domain"
)

var _ require.TestingT = (*T)(nil)

// T records assertion failures. It satisfies require.TestingT.
type T struct {
	mu       sync.Mutex
	messages []string
}

// Errorf records a failure
func (t *T) Errorf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// FailNow aborts the body with the failures recorded so far
func (t *T) FailNow() {
	panic(t.err())
}

// Helper is a no-op, testify calls it when present
func (t *T) Helper() {}

// Failed reports whether any failure was recorded
func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages) > 0
}

// Err returns the recorded failures as an assertion error, or nil
func (t *T) Err() error {
	if !t.Failed() {
		return nil
	}
	return t.err()
}

func (t *T) err() *domain.AssertionError {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) == 0 {
		return &domain.AssertionError{Message: "FailNow called"}
	}
	return &domain.AssertionError{Message: strings.Join(t.messages, "\n")}
}

// Body wraps an assertion-style function into a test body
func Body(fn func(ctx context.Context, t *T, deps domain.Dependencies)) domain.Body {
	return func(ctx context.Context, deps domain.Dependencies) (res any, err error) {
		t := &T{}
		defer func() {
			if r := recover(); r != nil {
				ae, ok := r.(*domain.AssertionError)
				if !ok {
					panic(r)
				}
				err = ae
			}
		}()
		fn(ctx, t, deps)
		return nil, t.Err()
	}
}
