package execution

import (
	"errors"
	"testing"

	"simple/internal/domain"
)

func TestClassify(t *testing.T) {
	boom := domain.Err(errors.New("boom"))
	assertion := domain.Err(domain.Assertf("expected 1, got 2"))
	ok := domain.Ok(nil)

	tests := []struct {
		name   string
		result domain.TestResult
		want   domain.Status
	}{
		{"all stages ok", domain.TestResult{BeforeEach: ok, Test: ok, AfterEach: ok}, domain.StatusPassed},
		{"no hooks", domain.TestResult{Test: ok}, domain.StatusPassed},
		{"assertion in test", domain.TestResult{Test: assertion}, domain.StatusFailed},
		{"error in test", domain.TestResult{Test: boom}, domain.StatusBroken},
		{"beforeEach failed", domain.TestResult{BeforeEach: boom, AfterEach: ok}, domain.StatusBroken},
		{"afterEach failed", domain.TestResult{Test: ok, AfterEach: boom}, domain.StatusBroken},
		{"assertion in beforeEach", domain.TestResult{BeforeEach: assertion}, domain.StatusBroken},
		{"assertion in afterEach", domain.TestResult{Test: ok, AfterEach: assertion}, domain.StatusBroken},
		{"assertion then afterEach error", domain.TestResult{Test: assertion, AfterEach: boom}, domain.StatusFailed},
		{"afterEach error with assertion", domain.TestResult{AfterEach: boom, Test: assertion, BeforeEach: ok}, domain.StatusFailed},
		{"wrapped assertion", domain.TestResult{Test: domain.Err(errors.Join(errors.New("ctx"), domain.Assertf("x")))}, domain.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.Classify(tt.result); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDefaultExit(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   []domain.Outcome
		wantStatus int
		want       domain.Summary
	}{
		{"empty run", nil, 0, domain.Summary{}},
		{"all passed", []domain.Outcome{domain.Ok(nil), domain.Ok(1)}, 0, domain.Summary{Passed: 2}},
		{"one failed", []domain.Outcome{domain.Ok(nil), domain.Err(domain.Assertf("no"))}, 1, domain.Summary{Passed: 1, Failed: 1}},
		{"one broken", []domain.Outcome{domain.Err(errors.New("x")), domain.Ok(nil)}, 1, domain.Summary{Passed: 1, Broken: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := NewResults()
			for i, o := range tt.outcomes {
				results.Store(domain.TestResult{
					Properties: domain.Properties{ClassName: "C", TestName: string(rune('a' + i))},
					Test:       o,
				})
			}
			exit := DefaultExit(results, domain.Stat{})
			if exit.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, exit.Status)
			}
			if exit.Summary != tt.want {
				t.Errorf("expected summary %+v, got %+v", tt.want, exit.Summary)
			}
			if (exit.Summary.Failed+exit.Summary.Broken > 0) != (exit.Status == 1) {
				t.Errorf("status must be 1 exactly when anything broke or failed")
			}
		})
	}
}
