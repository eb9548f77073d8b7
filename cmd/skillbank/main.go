package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/skillbank-client/internal/app"
	"github.com/samvad-hq/skillbank-client/internal/cli"
	"github.com/samvad-hq/skillbank-client/internal/config"
	"github.com/samvad-hq/skillbank-client/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "skillbank start failed: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	args, err := cli.ParseArgs(argv)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("skillbank starting", "config", map[string]any{
		"command":    args.Command,
		"api_origin": cfg.APIOrigin,
		"base_path":  cfg.APIBasePath,
		"journal":    cfg.JournalType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch args.Command {
	case cli.CommandRequest:
		return app.Request(ctx, cfg, log, args.Request, os.Stdout)
	case cli.CommandHistory:
		return app.History(cfg, log, args.Limit, os.Stdout)
	case cli.CommandWatch:
		watcher, err := app.NewWatcher(ctx, cfg, log, os.Stdout)
		if err != nil {
			logger.ErrorObj("failed to initialize watcher", "error", err)
			return err
		}
		if err := watcher.Run(ctx); err != nil {
			return fmt.Errorf("watcher run: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unhandled command %q", args.Command)
	}
}
