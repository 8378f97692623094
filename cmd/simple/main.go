package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"simple/internal/cli"
	"simple/internal/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Create root command with all subcommands registered
	rootCmd := commands.NewRootCommand()

	err := rootCmd.ExecuteContext(ctx)
	stop()

	// A StatusError only carries the exit policy's status; everything else
	// is a configuration, discovery or runtime error worth printing
	var status *cli.StatusError
	if err != nil && !errors.As(err, &status) {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
