package storage

import (
	"time"

	"simple/internal/domain"
)

// Storage persists and loads run results (e.g. for the failures viewer and --failed).
type Storage interface {
	Save(results []domain.TestResult, stat domain.Stat, exit domain.Exit, duration time.Duration, workers int) (*domain.RunOutput, error)
	Load() (*domain.RunOutput, error)
	// SaveOutput writes the full output (e.g. after toggling resolved flags).
	SaveOutput(output *domain.RunOutput) error
}

// JSONStorage stores results in a single JSON file.
type JSONStorage struct {
	path string
	now  func() time.Time
}

// NewJSONStorage returns a Storage that reads and writes path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path, now: time.Now}
}

// Path returns the file the storage writes to
func (s *JSONStorage) Path() string {
	return s.path
}

// FailedSet returns the identities of unresolved failures in output
func FailedSet(output *domain.RunOutput) map[domain.Properties]struct{} {
	set := make(map[domain.Properties]struct{})
	if output == nil {
		return set
	}
	for _, f := range output.Unresolved() {
		set[f.Properties()] = struct{}{}
	}
	return set
}
