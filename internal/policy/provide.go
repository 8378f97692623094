package policy

import (
	"strconv"

	"simple/internal/domain"
	"simple/internal/execution"
)

// Empty provides no dependencies
var Empty = execution.ProvideFunc(func(int, domain.Properties) domain.Dependencies {
	return domain.Dependencies{}
})

// WorkerEnv provides the worker id, exported to command suites as
// SIMPLE_WORKER_ID
var WorkerEnv = execution.ProvideFunc(func(workerID int, _ domain.Properties) domain.Dependencies {
	return domain.Dependencies{"SIMPLE_WORKER_ID": strconv.Itoa(workerID)}
})

// Compose merges the dependencies of several providers; later ones win on
// key collisions
func Compose(providers ...execution.Provider) execution.Provider {
	return execution.ProvideFunc(func(workerID int, props domain.Properties) domain.Dependencies {
		deps := domain.Dependencies{}
		for _, p := range providers {
			for k, v := range p.Provide(workerID, props) {
				deps[k] = v
			}
		}
		return deps
	})
}
