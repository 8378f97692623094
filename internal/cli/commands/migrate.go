package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"simple/internal/database"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	env *env
}

// Execute runs the command
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := mc.env.cfg
	db, err := database.NewProvider(cfg.Database, mc.env.log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Setup(cmd.Context(), cfg.ThreadCount); err != nil {
		return err
	}
	return migrate(cmd.Context(), mc.env, db)
}

// migrate runs the configured migrate command for every worker database and
// prints a per-worker summary
func migrate(ctx context.Context, e *env, db *database.Provider) error {
	command := e.cfg.Database.Migrate
	if command == "" {
		return errors.New("no migrate command configured: set database.migrate or SIMPLE_DB_MIGRATE")
	}

	cyan := color.New(color.FgCyan)
	cyan.Fprintf(e.out, "Running migrations for %d worker database(s)\n", e.cfg.ThreadCount)

	results, err := database.NewMigrator(db, command, e.cfg.ProjectPath, e.log).Run(ctx, e.cfg.ThreadCount)
	for _, r := range results {
		if r.Err == nil {
			color.New(color.FgGreen).Fprintf(e.out, "  ✓ worker %d (%s)\n", r.WorkerID, r.Database)
			continue
		}
		color.New(color.FgRed).Fprintf(e.out, "  ✗ worker %d (%s): %v\n%s", r.WorkerID, r.Database, r.Err, r.Output)
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
