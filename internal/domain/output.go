package domain

// RunMeta describes a persisted run
type RunMeta struct {
	RunID           string  `json:"run_id"`
	Stat            Stat    `json:"stat"`
	Summary         Summary `json:"summary"`
	Status          int     `json:"status"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the JSON document written after every run
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []TestFailure `json:"details"`
}

// Unresolved returns the failures not yet marked resolved
func (o *RunOutput) Unresolved() []TestFailure {
	var out []TestFailure
	for _, f := range o.Details {
		if !f.Resolved {
			out = append(out, f)
		}
	}
	return out
}
