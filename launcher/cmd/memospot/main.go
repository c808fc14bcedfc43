package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/memospot/memospot/launcher/internal/bootstrap"
	"github.com/memospot/memospot/launcher/internal/dialog"
	"github.com/memospot/memospot/launcher/internal/logsink"
)

// shutdownGrace is how long the server gets to exit after a stop request.
const shutdownGrace = 5 * time.Second

func main() {
	dataDir := flag.String("data-dir", "", "data directory (default ~/.memospot)")
	resources := flag.String("resources", "", "bundled resources directory")
	binary := flag.String("binary", "", "path to the memos server binary")
	dev := flag.Bool("dev", false, "development mode: demo server on the next port")
	assumeYes := flag.Bool("yes", false, "answer yes to prompts when no terminal is attached")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	paths, err := bootstrap.DefaultPaths(bootstrap.Overrides{
		DataDir:   *dataDir,
		Resources: *resources,
		Binary:    *binary,
	})
	if err != nil {
		dialog.Fatal(err)
	}

	l := &bootstrap.Launcher{
		Paths:    paths,
		Dev:      *dev,
		Prompter: dialog.NewTerminal(*assumeYes),
		Stderr:   os.Stderr,
		OnBackend: func(b *logsink.Backend) {
			slog.SetDefault(b.Logger)
		},
	}

	rt, err := l.Run()
	if err != nil {
		dialog.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if rt.Backend != nil {
		defer rt.Backend.Close()
		go func() {
			if err := rt.Backend.Watch(ctx); err != nil {
				slog.Error("logging config watcher stopped", "err", err)
			}
		}()
	}

	slog.Info("memospot started",
		"port", rt.Port.Get(),
		"addr", rt.Config.Doc.Memos.Addr,
		"workdir", rt.WorkDir,
	)

	select {
	case <-ctx.Done():
		slog.Info("memospot shutting down")
		if err := rt.Shutdown(shutdownGrace); err != nil {
			slog.Error("failed to stop memos server", "err", err)
		}
	case <-rt.Done:
		slog.Info("memos server exited, memospot shutting down")
	}
}
