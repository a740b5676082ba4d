package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cruciblehq/bootforge/internal"
	"github.com/cruciblehq/bootforge/internal/cli"
)

// The entry point for bootforge.
//
// Initializes logging, displays startup information, and executes the root
// command. Interrupts cancel the build; the process exits with the code
// derived from the returned error.
func main() {
	slog.SetDefault(logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("bootforge is running",
		"pid", os.Getpid(),
		"cwd", workdir(),
		"args", os.Args,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	var usageErr *cli.UsageError
	if err != nil && !errors.As(err, &usageErr) {
		slog.Error(err.Error())
	}
	os.Exit(cli.ExitCode(err))
}

// Creates the startup logger, writing text records to stderr at the level
// selected by the linker-flag modes. [cli.Execute] replaces it once the
// command line is parsed.
func logger() *slog.Logger {
	return slog.New(cli.NewHandler(os.Stderr, "text", cli.Level(internal.IsDebug(), internal.IsQuiet())))
}

// Working directory for the startup record, empty if it cannot be read.
func workdir() string {
	dir, _ := os.Getwd()
	return dir
}
