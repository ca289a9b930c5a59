// Command vulnscan-web serves the scanner's web front end.
// Usage: vulnscan-web [-config file.yaml] [-addr :8080] [-api-base http://localhost:8000] [-log-level info]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raysh454/vulnscan-web/internal/app"
	"github.com/raysh454/vulnscan-web/internal/cli"
	"github.com/raysh454/vulnscan-web/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "vulnscan-web:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	args, err := cli.ParseArgs(argv)
	if err != nil {
		return err
	}

	cfg, err := app.LoadConfig(args.ConfigPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyArgs(args)

	application, err := app.NewApplication(cfg, args, nil, nil)
	if err != nil {
		return err
	}
	if err := application.Start(); err != nil {
		_ = application.Shutdown(context.Background())
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-application.Err():
		application.Logger.Error("server stopped", logging.Field{Key: "error", Value: serveErr.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return serveErr
}
