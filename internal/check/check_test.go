package check

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple/internal/domain"
)

func TestBody_Passing(t *testing.T) {
	body := Body(func(ctx context.Context, ct *T, deps domain.Dependencies) {
		assert.Equal(ct, 2, 1+1)
		require.True(ct, true)
	})

	_, err := body(context.Background(), nil)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestBody_AssertKeepsGoing(t *testing.T) {
	reached := false
	body := Body(func(ctx context.Context, ct *T, deps domain.Dependencies) {
		assert.Equal(ct, 1, 2)
		reached = true
	})

	_, err := body(context.Background(), nil)
	var ae *domain.AssertionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected assertion error, got %v", err)
	}
	if !reached {
		t.Error("assert should not stop the body")
	}
}

func TestBody_RequireStops(t *testing.T) {
	reached := false
	body := Body(func(ctx context.Context, ct *T, deps domain.Dependencies) {
		require.Equal(ct, "a", "b")
		reached = true
	})

	_, err := body(context.Background(), nil)
	var ae *domain.AssertionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected assertion error, got %v", err)
	}
	if reached {
		t.Error("require should stop the body")
	}
	if ae.Message == "" {
		t.Error("expected a failure message")
	}
}

func TestBody_OtherPanicsPropagate(t *testing.T) {
	body := Body(func(ctx context.Context, ct *T, deps domain.Dependencies) {
		panic("boom")
	})

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("expected panic to propagate, got %v", r)
		}
	}()
	_, _ = body(context.Background(), nil)
}
