package execution

import (
	"errors"
	"fmt"

	"simple/internal/domain"
)

// ErrInvalidConfig is wrapped by every configuration error
var ErrInvalidConfig = errors.New("invalid config")

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Plan applies the schedule policy. Its result becomes the shared work queue.
// A scheduler that errors, or returns no sequence for a non-empty input, is a
// configuration error.
func Plan(scheduler Scheduler, prepared []domain.PreparedTest) (*Queue, error) {
	if scheduler == nil {
		return nil, invalidConfig("[schedule] is not set")
	}
	planned, err := scheduler.Schedule(prepared)
	if err != nil {
		return nil, fmt.Errorf("%w: [schedule] failed: %w", ErrInvalidConfig, err)
	}
	if planned == nil && len(prepared) > 0 {
		return nil, invalidConfig("[schedule] returned no sequence")
	}
	return NewQueue(planned), nil
}
