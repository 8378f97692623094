package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"simple/internal/config"
)

// Version is reported by --version and printed in the run banner
var Version = "1.0"

// Flags holds command-line flags
type Flags struct {
	ConfigFile   string
	ProjectPath  string
	TestPath     string
	Verbose      bool
	Threads      int
	Filter       string
	Interleave   bool
	Shuffle      bool
	Seed         uint64
	Retries      int
	FailFast     bool
	OnlyFailed   bool
	StageTimeout time.Duration
	Database     bool
	Migrate      bool
	NoProgress   bool
	Watch        bool
	OpenFailures bool
	Print        bool
}

// Apply copies the flags the user actually set onto cfg, so file and
// environment settings survive unless overridden on the command line
func (f *Flags) Apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("project") {
		cfg.ProjectPath = f.ProjectPath
	}
	if changed("test-path") {
		cfg.TestPath = f.TestPath
	}
	if changed("verbose") {
		cfg.Verbose = f.Verbose
	}
	if changed("threads") {
		cfg.ThreadCount = f.Threads
	}
	if changed("filter") {
		cfg.Filter = f.Filter
	}
	if changed("interleave") {
		cfg.Interleave = f.Interleave
	}
	if changed("shuffle") {
		cfg.Shuffle = f.Shuffle
	}
	if changed("seed") {
		cfg.Seed = f.Seed
		cfg.Shuffle = true
	}
	if changed("retries") {
		cfg.Retries = f.Retries
	}
	if changed("fail-fast") {
		cfg.FailFast = f.FailFast
	}
	if changed("failed") {
		cfg.OnlyFailed = f.OnlyFailed
	}
	if changed("stage-timeout") {
		cfg.StageTimeout = f.StageTimeout
	}
	if changed("db") {
		cfg.Database.Enabled = f.Database
	}
	if changed("no-progress") {
		cfg.NoProgress = f.NoProgress
	}
}

// LoadConfig builds the effective configuration: defaults, then the config
// file, then .env and environment variables, then flags
func (f *Flags) LoadConfig(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("project") {
		cfg.ProjectPath = f.ProjectPath
	}

	path, required := config.DefaultConfigFile, false
	if f.ConfigFile != "" {
		path, required = f.ConfigFile, true
	} else if cfg.ProjectPath != "" {
		path = filepath.Join(cfg.ProjectPath, config.DefaultConfigFile)
	}
	if err := cfg.LoadFile(path, required); err != nil {
		return err
	}
	if err := cfg.LoadEnv(); err != nil {
		return err
	}
	f.Apply(cmd, cfg)
	return cfg.Validate()
}
