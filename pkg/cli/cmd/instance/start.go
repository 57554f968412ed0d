package instance

import (
	runtime "github.com/devantler-tech/vmctl/pkg/di"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/spf13/cobra"
)

// NewStartCmd creates the start command, a shorthand for start_stop --action start.
func NewStartCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return newTransitionCmd(runtimeContainer, waiter.DesiredRunning, "Start an instance and wait until it is running")
}

// NewStopCmd creates the stop command, a shorthand for start_stop --action stop.
func NewStopCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return newTransitionCmd(runtimeContainer, waiter.DesiredStopped, "Stop an instance and wait until it is stopped")
}

func newTransitionCmd(
	runtimeContainer *runtime.Runtime,
	desired waiter.DesiredState,
	short string,
) *cobra.Command {
	var opts TransitionOptions

	cmd := &cobra.Command{
		Use:          desired.Verb() + " <instance-id>",
		Short:        short,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: runtime.RunEWithRuntime(
			runtimeContainer,
			runtime.WithWaiter(
				func(cmd *cobra.Command, args []string, _ runtime.Injector, stateWaiter *waiter.Waiter) error {
					return HandleTransitionRunE(cmd, args[0], desired, stateWaiter, opts)
				},
			),
		),
	}

	if desired == waiter.DesiredRunning {
		addAddressFlags(cmd, &opts)
	}

	return cmd
}
