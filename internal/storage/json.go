package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"simple/internal/domain"
)

// Save builds the run output from results and writes it to the JSON file.
func (s *JSONStorage) Save(results []domain.TestResult, stat domain.Stat, exit domain.Exit, duration time.Duration, workers int) (*domain.RunOutput, error) {
	details := make([]domain.TestFailure, 0)
	for _, r := range results {
		if f, ok := domain.FailureOf(r); ok {
			details = append(details, f)
		}
	}

	output := &domain.RunOutput{
		Meta: domain.RunMeta{
			RunID:           uuid.NewString(),
			Stat:            stat,
			Summary:         exit.Summary,
			Status:          exit.Status,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       s.now().Format(time.RFC3339),
		},
		Details: details,
	}
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

// Load reads the last run from the JSON file.
func (s *JSONStorage) Load() (*domain.RunOutput, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes output to the JSON file, creating its directory.
func (s *JSONStorage) SaveOutput(output *domain.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
