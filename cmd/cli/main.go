package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/gridwords/internal/app"
	"github.com/specialistvlad/gridwords/internal/cli"
	"github.com/specialistvlad/gridwords/internal/hcl_adapter"
	"github.com/specialistvlad/gridwords/internal/model"
)

// main is the entrypoint for the gridwords application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl_adapter.NewLoader()
	gridwordsApp, err := app.NewApp(outW, errW, appConfig, loader)
	if err != nil {
		return asExitError(err)
	}
	return asExitError(gridwordsApp.Run(ctx))
}

// asExitError maps configuration failures to the usage exit code.
func asExitError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrConfiguration) {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}
	return err
}
