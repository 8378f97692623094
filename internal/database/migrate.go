package database

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"simple/internal/domain"
	"simple/internal/logging"
)

// MigrationResult is the outcome of the migrate command for one worker
type MigrationResult struct {
	WorkerID int
	Database string
	Output   string
	Err      error
}

// Migrator runs a shell command once per worker database, e.g. a schema
// migration, with the worker's DB_* variables exported
type Migrator struct {
	provider *Provider
	command  string
	dir      string
	shell    string
	log      *logging.Logger
}

// NewMigrator creates a Migrator running command in dir
func NewMigrator(p *Provider, command, dir string, log *logging.Logger) *Migrator {
	return &Migrator{provider: p, command: command, dir: dir, shell: "sh", log: log}
}

// Run migrates the databases of workers 1..workers in parallel. The returned
// results are ordered by worker; err reports how many workers failed.
func (m *Migrator) Run(ctx context.Context, workers int) ([]MigrationResult, error) {
	start := time.Now()

	var wg sync.WaitGroup
	results := make(chan MigrationResult, workers)
	for id := 1; id <= workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results <- m.migrate(ctx, id)
		}(id)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []MigrationResult
	failed := 0
	for r := range results {
		if r.Err != nil {
			failed++
			m.log.Warn("migration failed", "worker", r.WorkerID, "database", r.Database, "error", r.Err)
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].WorkerID < all[j].WorkerID })

	m.log.Debug("migrations finished", "workers", workers, "failed", failed, "duration", time.Since(start))
	if failed > 0 {
		return all, fmt.Errorf("migration failed for %d worker(s)", failed)
	}
	return all, nil
}

func (m *Migrator) migrate(ctx context.Context, workerID int) MigrationResult {
	deps := m.provider.Provide(workerID, domain.Properties{})
	result := MigrationResult{WorkerID: workerID, Database: m.provider.DatabaseName(workerID)}

	cmd := exec.CommandContext(ctx, m.shell, "-c", m.command)
	cmd.Dir = m.dir
	cmd.Env = append(os.Environ(), deps.Environ()...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	result.Err = cmd.Run()
	result.Output = out.String()
	return result
}
