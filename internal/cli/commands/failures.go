package commands

import (
	"github.com/spf13/cobra"

	"simple/internal/cli"
	"simple/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	env   *env
	flags *cli.Flags
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st := fc.env.storage()
	output, err := st.Load()
	if err != nil {
		return err
	}

	if fc.flags != nil && fc.flags.Print {
		fc.env.formatter().PrintLastRun(output)
		return nil
	}
	return ui.NewFailureViewer(st, fc.env.out, fc.env.log).View(output)
}
