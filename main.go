// Package main is the entry point for the vmctl application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/devantler-tech/vmctl/internal/buildmeta"
	"github.com/devantler-tech/vmctl/pkg/cli/cmd"
	"github.com/devantler-tech/vmctl/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/vmctl/pkg/utils/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	exitCode := runSafely(ctx, os.Args[1:], runWithArgs, os.Stderr)

	stop()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(
	ctx context.Context,
	args []string,
	runner func(context.Context, []string, io.Writer) int,
	errWriter io.Writer,
) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			panicMessage := fmt.Sprintf("panic recovered: %v\n%s", r, debug.Stack())
			notify.WriteMessage(notify.Message{
				Type:    notify.ErrorType,
				Content: panicMessage,
				Writer:  errWriter,
			})

			exitCode = errorhandler.ExitError
		}
	}()

	exitCode = runner(ctx, args, errWriter)

	return exitCode
}

func runWithArgs(ctx context.Context, args []string, errWriter io.Writer) int {
	rootCmd := cmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	rootCmd.SetArgs(args)
	rootCmd.SetErr(errWriter)

	err := cmd.Execute(ctx, rootCmd)
	if err != nil {
		notify.Errorf(errWriter, "%v", err)

		if hint := errorhandler.Hint(err); hint != "" {
			notify.Infof(errWriter, "%s", hint)
		}

		return errorhandler.ExitCode(err)
	}

	return errorhandler.ExitOK
}
