package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	run := func(level string) error {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		return setupLogger(ctx)
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			assert.NoError(t, run(level), "level %q should be accepted", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := run("verbose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("First paragraph.\n\nSecond paragraph."), 0o644))

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "split",
				Action: splitCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "chunk-size", Value: 1000},
					&cli.IntFlag{Name: "chunk-overlap", Value: 200},
					&cli.StringFlag{Name: "strategy", Value: "semantic"},
				},
			},
		},
	}

	t.Run("splits a file", func(t *testing.T) {
		err := app.Run([]string{"ragify", "split", path})
		assert.NoError(t, err)
	})

	t.Run("missing file argument fails", func(t *testing.T) {
		err := app.Run([]string{"ragify", "split"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("unknown strategy fails", func(t *testing.T) {
		err := app.Run([]string{"ragify", "split", "--strategy", "magic", path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "strategy")
	})
}
