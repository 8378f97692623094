package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"simple/internal/cli"
	"simple/internal/config"
	"simple/internal/database"
	"simple/internal/discovery"
	"simple/internal/execution"
	"simple/internal/exitcodes"
	"simple/internal/policy"
	"simple/internal/storage"
	"simple/internal/ui"
	"simple/internal/watch"
)

// RunCommand handles the run command
type RunCommand struct {
	env   *env
	flags *cli.Flags
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	status, err := rc.runOnce(ctx)
	if err != nil {
		return err
	}
	if rc.flags != nil && rc.flags.Watch {
		return rc.watch(ctx)
	}
	if status != exitcodes.Success {
		return &cli.StatusError{Code: status}
	}
	return nil
}

// runOnce performs a single run and returns the exit policy's status
func (rc *RunCommand) runOnce(ctx context.Context) (int, error) {
	cfg, log := rc.env.cfg, rc.env.log
	formatter := rc.env.formatter()
	st := rc.env.storage()

	formatter.PrintHeader(cli.Version)

	policies, progress, cleanup, err := rc.policies(ctx, st)
	if err != nil {
		return exitcodes.RuntimeErr, err
	}
	defer cleanup()

	report, err := execution.NewEngine(rc.env.loader(), log).Run(ctx, rc.env.options(), policies)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return exitcodes.RuntimeErr, err
	}

	output, err := st.Save(report.Results.All(), report.Stat, report.Exit, report.Duration, cfg.ThreadCount)
	if err != nil {
		return exitcodes.RuntimeErr, fmt.Errorf("failed to save test results: %w", err)
	}
	formatter.PrintFooter(report)

	if rc.flags != nil && rc.flags.OpenFailures && len(output.Details) > 0 {
		if err := ui.NewFailureViewer(st, rc.env.out, log).View(output); err != nil {
			return exitcodes.RuntimeErr, err
		}
	}
	return report.Exit.Status, nil
}

// policies assembles the extension points from the configuration. cleanup
// releases whatever the provide policy acquired.
func (rc *RunCommand) policies(ctx context.Context, st storage.Storage) (execution.Policies, *ui.ProgressReporter, func(), error) {
	cfg, log := rc.env.cfg, rc.env.log
	cleanup := func() {}

	schedule, err := rc.schedule(st)
	if err != nil {
		return execution.Policies{}, nil, cleanup, err
	}

	var progress *ui.ProgressReporter
	var report execution.ReporterFactory = ui.NewConsoleReporter(rc.env.out)
	if !cfg.NoProgress && isTerminal(os.Stderr) {
		progress = ui.NewProgressReporter(os.Stderr, 0)
		report = progress
	}

	policies := policy.Defaults(report)
	policies.Schedule = schedule
	policies.Provide = policy.WorkerEnv
	if cfg.Retries > 0 {
		policies.Analyze = policy.NewRetry(cfg.Retries, log)
	}
	if cfg.FailFast {
		policies.Stop = policy.FailFast
	}

	if cfg.Database.Enabled {
		db, err := database.NewProvider(cfg.Database, log)
		if err != nil {
			return execution.Policies{}, nil, cleanup, err
		}
		if err := db.Setup(ctx, cfg.ThreadCount); err != nil {
			db.Close()
			return execution.Policies{}, nil, cleanup, err
		}
		if rc.flags != nil && rc.flags.Migrate {
			if err := migrate(ctx, rc.env, db); err != nil {
				db.Close()
				return execution.Policies{}, nil, cleanup, err
			}
		}
		policies.Provide = policy.Compose(policy.WorkerEnv, db)
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Warn("failed to close test databases", "error", err)
			}
		}
	}
	return policies, progress, cleanup, nil
}

func (rc *RunCommand) schedule(st storage.Storage) (execution.Scheduler, error) {
	cfg := rc.env.cfg
	var chain []execution.Scheduler

	if cfg.OnlyFailed {
		last, err := st.Load()
		if err != nil {
			return nil, fmt.Errorf("--failed needs a previous run: %w", err)
		}
		failed := storage.FailedSet(last)
		if len(failed) == 0 {
			color.New(color.FgYellow).Fprintln(rc.env.out, "No failed tests from last run")
		}
		chain = append(chain, policy.OnlyTests(failed))
	}
	if cfg.Filter != "" {
		chain = append(chain, policy.FilterByName(cfg.Filter))
	}
	if cfg.Interleave {
		chain = append(chain, policy.Interleave)
	}
	if cfg.Shuffle {
		if cfg.Seed == 0 {
			cfg.Seed = uint64(time.Now().UnixNano())
		}
		fmt.Fprintf(rc.env.out, "Shuffle seed: %d\n", cfg.Seed)
		chain = append(chain, policy.Shuffle(cfg.Seed))
	}

	if len(chain) == 0 {
		return policy.Identity, nil
	}
	return policy.Chain(chain...), nil
}

// watch reruns the suite on every change below the test path until ctx ends
func (rc *RunCommand) watch(ctx context.Context) error {
	cfg, log := rc.env.cfg, rc.env.log

	w, err := watch.New(log,
		watch.WithDebounce(config.DefaultWatchDebounce),
		watch.WithMatcher(discovery.IsManifest),
		watch.WithSkipDirs(cfg.PathsToIgnore...),
	)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	if err := w.WatchDir(cfg.GetTestPath()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.GetTestPath(), err)
	}
	color.New(color.FgCyan).Fprintf(rc.env.out, "Watching %s for changes (Ctrl+C to stop)\n", cfg.GetTestPath())

	err = w.Run(ctx, func(ctx context.Context) error {
		_, err := rc.runOnce(ctx)
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
