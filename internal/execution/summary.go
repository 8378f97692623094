package execution

import "simple/internal/domain"

// Summarize classifies every result
func Summarize(results []domain.TestResult) domain.Summary {
	var summary domain.Summary
	for _, r := range results {
		summary.Add(domain.Classify(r))
	}
	return summary
}

// DefaultExit is the stock exit policy: status 1 if anything broke or failed
func DefaultExit(results *Results, _ domain.Stat) domain.Exit {
	summary := Summarize(results.All())
	return domain.Exit{Status: summary.Status(), Summary: summary}
}
