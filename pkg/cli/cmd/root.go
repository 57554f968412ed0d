package cmd

import (
	"context"
	"fmt"

	"github.com/devantler-tech/vmctl/pkg/cli/cmd/instance"
	"github.com/devantler-tech/vmctl/pkg/cli/ui/errorhandler"
	runtime "github.com/devantler-tech/vmctl/pkg/di"
	"github.com/devantler-tech/vmctl/pkg/io/configmanager"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return newRootCmd(runtime.NewRuntime(), version, commit, date)
}

// Execute runs the provided root command with ctx and handles errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

func newRootCmd(runtimeContainer *runtime.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vmctl",
		Short: "vmctl starts, stops and inspects cloud compute instances",
		Long: `vmctl starts, stops and inspects cloud compute instances.

Start and stop requests are followed until the instance reaches the requested
state, enters a state it cannot recover from, or the poll budget runs out.
Credentials are read from the environment, a .env file or the config file.`,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	configmanager.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(instance.NewStartStopCmd(runtimeContainer))
	cmd.AddCommand(instance.NewStartCmd(runtimeContainer))
	cmd.AddCommand(instance.NewStopCmd(runtimeContainer))
	cmd.AddCommand(instance.NewShowInstancesCmd(runtimeContainer))
	cmd.AddCommand(instance.NewShowInstanceIPCmd(runtimeContainer))
	cmd.AddCommand(NewWhoamiCmd(runtimeContainer))

	return cmd
}

// handleRootRunE handles the root command.
func handleRootRunE(
	cmd *cobra.Command,
	_ []string,
) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
