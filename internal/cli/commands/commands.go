package commands

import (
	"io"

	"github.com/spf13/cobra"

	"simple/internal/cli"
	"simple/internal/config"
	"simple/internal/discovery"
	"simple/internal/execution"
	"simple/internal/logging"
	"simple/internal/storage"
	"simple/internal/ui"
)

// env is the state shared by all commands. It is completed once flags are
// parsed and the configuration is loaded.
type env struct {
	cfg *config.Config
	log *logging.Logger
	out io.Writer
}

func (e *env) loader() *discovery.Loader {
	resolver := discovery.ChainResolver{
		discovery.DefaultRegistry(),
		discovery.NewManifestResolver(),
	}
	return discovery.NewLoader(e.cfg.PathsToIgnore, resolver, e.log)
}

func (e *env) storage() *storage.JSONStorage {
	return storage.NewJSONStorage(e.cfg.GetOutputPath())
}

func (e *env) formatter() *ui.Formatter {
	return ui.NewFormatter(e.out)
}

func (e *env) options() execution.Options {
	return execution.Options{
		TestPath:     e.cfg.GetTestPath(),
		ThreadCount:  e.cfg.ThreadCount,
		StageTimeout: e.cfg.StageTimeout,
	}
}

// Commands holds all CLI commands
type Commands struct {
	env      *env
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	Migrate  *MigrateCommand
}

// NewCommands creates all commands sharing cfg
func NewCommands(cfg *config.Config) *Commands {
	e := &env{cfg: cfg, log: logging.NewNop(), out: io.Discard}
	return &Commands{
		env:      e,
		Run:      &RunCommand{env: e},
		List:     &ListCommand{env: e},
		Failures: &FailuresCommand{env: e},
		Migrate:  &MigrateCommand{env: e},
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := flags.LoadConfig(cmd, c.env.cfg); err != nil {
			return err
		}
		c.env.log = logging.New(c.env.cfg.Verbose)
		c.env.out = cmd.OutOrStdout()
		c.Run.flags = flags
		c.Failures.flags = flags
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = c.env.log.Sync()
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to a YAML config file (default: simple.yaml in the project)")
	pf.StringVar(&flags.ProjectPath, "project", config.DefaultProjectPath, "Project root; relative test and output paths resolve against it")
	pf.StringVarP(&flags.TestPath, "test-path", "t", config.DefaultTestPath, "Directory where test discovery starts")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run tests in parallel",
		Long:  "Discover, prepare and execute tests using concurrent workers draining a shared queue",
		RunE:  c.Run.Execute,
	}
	rf := runCmd.Flags()
	rf.IntVarP(&flags.Threads, "threads", "p", config.DefaultThreadCount, "Number of concurrent workers")
	rf.StringVarP(&flags.Filter, "filter", "f", "", "Only run tests whose Class.test name matches the pattern (supports wildcards, e.g. 'Math.*' or '*login*')")
	rf.BoolVar(&flags.Interleave, "interleave", false, "Spread tests of each class across the plan round-robin")
	rf.BoolVar(&flags.Shuffle, "shuffle", false, "Randomise the execution order")
	rf.Uint64Var(&flags.Seed, "seed", 0, "Seed for --shuffle; implies --shuffle")
	rf.IntVar(&flags.Retries, "retries", 0, "Requeue broken or failed tests up to this many times")
	rf.BoolVar(&flags.FailFast, "fail-fast", false, "Stop a worker after its first broken or failed test")
	rf.BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that failed in the last run")
	rf.DurationVar(&flags.StageTimeout, "stage-timeout", 0, "Cancel a beforeEach, test or afterEach stage after this long (0 disables)")
	rf.BoolVar(&flags.Database, "db", false, "Provision one MySQL database per worker and provide it to tests")
	rf.BoolVarP(&flags.Migrate, "migrate", "m", false, "Run the database migrate command for every worker before executing tests (needs --db)")
	rf.BoolVar(&flags.NoProgress, "no-progress", false, "Print one line per test instead of a progress bar")
	rf.BoolVarP(&flags.Watch, "watch", "w", false, "Rerun when files under the test path change")
	rf.BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Load and prepare tests without executing them; tests that failed in the last run are marked [F]",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only list tests whose Class.test name matches the pattern")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures of the last run",
		Long:  "Display failures from the last run in an interactive viewer; R toggles a failure resolved",
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().BoolVar(&flags.Print, "print", false, "Print the last run summary instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the test databases of all workers",
		Long:  "Create the per-worker MySQL databases and run the configured migrate command for each in parallel",
		RunE:  c.Migrate.Execute,
	}
	migrateCmd.Flags().IntVarP(&flags.Threads, "threads", "p", config.DefaultThreadCount, "Number of workers to prepare databases for")
	rootCmd.AddCommand(migrateCmd)
}

// NewRootCommand builds the complete command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "simple",
		Short:         "Simple test automation framework",
		Long:          "A pluggable test engine: concurrent workers drain a shared queue of prepared tests, with schedule, analyze, stop, provide, report and exit policies.",
		Version:       cli.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	var flags cli.Flags
	NewCommands(config.New()).Register(rootCmd, &flags)
	return rootCmd
}
