package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple/internal/config"
	"simple/internal/exitcodes"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcodes.Success},
		{"failing tests", &StatusError{Code: exitcodes.TestFailure}, exitcodes.TestFailure},
		{"wrapped status", fmt.Errorf("run: %w", &StatusError{Code: 1}), 1},
		{"plain error", errors.New("no such dir"), exitcodes.RuntimeErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func newCommand(f *Flags) *cobra.Command {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().StringVar(&f.ProjectPath, "project", "", "")
	cmd.Flags().StringVar(&f.ConfigFile, "config", "", "")
	cmd.Flags().StringVarP(&f.TestPath, "test-path", "t", "", "")
	cmd.Flags().IntVarP(&f.Threads, "threads", "p", 1, "")
	cmd.Flags().IntVar(&f.Retries, "retries", 0, "")
	cmd.Flags().Uint64Var(&f.Seed, "seed", 0, "")
	return cmd
}

func TestFlags_LoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFile),
		[]byte("testPath: from-file\nthreadCount: 3\nretries: 2\n"), 0644))
	t.Setenv("SIMPLE_THREAD_COUNT", "5")

	var f Flags
	cmd := newCommand(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--project", dir, "--retries", "1", "--seed", "9"}))

	cfg := config.New()
	require.NoError(t, f.LoadConfig(cmd, cfg))

	assert.Equal(t, "from-file", cfg.TestPath, "file value kept when flag unset")
	assert.Equal(t, 5, cfg.ThreadCount, "environment overrides file")
	assert.Equal(t, 1, cfg.Retries, "flag overrides file")
	assert.True(t, cfg.Shuffle, "--seed implies shuffle")
	assert.Equal(t, uint64(9), cfg.Seed)
}

func TestFlags_LoadConfigErrors(t *testing.T) {
	t.Run("missing explicit config", func(t *testing.T) {
		var f Flags
		cmd := newCommand(&f)
		require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}))
		assert.Error(t, f.LoadConfig(cmd, config.New()))
	})

	t.Run("invalid thread count", func(t *testing.T) {
		var f Flags
		cmd := newCommand(&f)
		require.NoError(t, cmd.ParseFlags([]string{"--project", t.TempDir(), "-p", "0"}))
		assert.Error(t, f.LoadConfig(cmd, config.New()))
	})
}
