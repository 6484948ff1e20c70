package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/config"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Usage:       "Watch rule sources and print the resolved groups on change",
		Description: `Watch the global settings document and the project rule files of --cwd, printing the resolved groups whenever one of them changes. Stops on interrupt.`,
		Flags:       []cli.Flag{cwdFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := workDir(cmd)
			if err != nil {
				return err
			}
			env := loadEnv(cmd)
			store := newStore(env, notifierFor(cmd))

			watcher, err := config.NewWatcher(store, dir)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			return runWatch(ctx, cmd, store, watcher, dir)
		},
	}
}

func runWatch(ctx context.Context, cmd *cli.Command, store *config.Store, watcher *config.Watcher, dir string) error {
	w := stdout(cmd)
	summary := func() {
		resolved := store.GetConfig(dir)
		fmt.Fprintf(w, "[%s] sources: %s\n", time.Now().Format(time.TimeOnly), layerSummary(resolved.Layers))
		if len(resolved.Groups) > 0 {
			fmt.Fprintln(w, groupTable(resolved.Groups, dir).Render())
		}
	}
	watcher.OnReload = summary
	watcher.OnError = func(err error) {
		fmt.Fprintf(stderr(cmd), "Warning: watcher error: %v\n", err)
	}

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Stop() }()

	summary()
	fmt.Fprintf(w, "Watching %d directories, press Ctrl+C to stop\n", len(watcher.Dirs()))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
