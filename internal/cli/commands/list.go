package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"simple/internal/domain"
	"simple/internal/execution"
	"simple/internal/policy"
	"simple/internal/storage"
)

// ListCommand handles the list command
type ListCommand struct {
	env *env
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.env.cfg
	engine := execution.NewEngine(lc.env.loader(), lc.env.log)

	tests, _, err := engine.Discover(lc.env.options())
	if err != nil {
		return err
	}
	if cfg.Filter != "" {
		if tests, err = policy.FilterByName(cfg.Filter).Schedule(tests); err != nil {
			return err
		}
	}

	if len(tests) == 0 {
		color.New(color.FgYellow).Fprintln(lc.env.out, "No tests found")
		return nil
	}

	// A missing results file only means there are no markers to show
	var failed map[domain.Properties]struct{}
	if last, err := lc.env.storage().Load(); err == nil {
		failed = storage.FailedSet(last)
	}
	lc.env.formatter().PrintSuiteList(tests, failed)
	return nil
}
