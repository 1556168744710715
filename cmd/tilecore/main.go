package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/llamasearchai/llamaquest/internal/config"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
	"github.com/llamasearchai/llamaquest/internal/injector"
)

const usage = `usage: tilecore [-config file] <command> [flags]

commands:
  path        plan a path on a map file
  fov         compute the field of view on a map file
  trajectory  predict a ballistic trajectory
  dungeon     generate a dungeon map
  watch       re-plan a path every time a map file changes
`

type command func(ctx context.Context, app *app, args []string) error

var commands = map[string]command{
	"path":       runPath,
	"fov":        runFOV,
	"trajectory": runTrajectory,
	"dungeon":    runDungeon,
	"watch":      runWatch,
}

type app struct {
	tk     *injector.Toolkit
	stdout io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "tilecore:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tilecore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "YAML or JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	tk, err := injector.InitializeToolkit(cfg)
	if err != nil {
		return err
	}
	if l, ok := tk.Logger.(*log.Logger); ok {
		defer func() { _ = l.Sync() }()
	}

	return cmd(ctx, &app{tk: tk, stdout: stdout}, fs.Args()[1:])
}
