package instance

import (
	"fmt"
	"time"

	runtime "github.com/devantler-tech/vmctl/pkg/di"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/spf13/cobra"
)

// WaitFlagName is the flag that lets show_instance_ip wait for an address.
const WaitFlagName = "wait"

// NewShowInstanceIPCmd creates the show_instance_ip command.
func NewShowInstanceIPCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:     "show_instance_ip <instance-id>",
		Aliases: []string{"show-instance-ip", "ip"},
		Short:   "Print the public address of an instance",
		Long: `Print the public IPv4 address of an instance, or fail when it has none.

Only the address is written to stdout so the output can be used in scripts:
  ssh ubuntu@$(vmctl show_instance_ip i-0123456789abcdef0 --wait 1m)`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: runtime.RunEWithRuntime(
			runtimeContainer,
			runtime.WithWaiter(
				func(cmd *cobra.Command, args []string, _ runtime.Injector, stateWaiter *waiter.Waiter) error {
					return HandleShowInstanceIPRunE(cmd, args[0], wait, stateWaiter)
				},
			),
		),
	}

	cmd.Flags().DurationVar(&wait, WaitFlagName, 0, "wait up to this long for an address to be assigned")

	return cmd
}

// HandleShowInstanceIPRunE prints the public address of the instance.
// Exported for testing purposes.
func HandleShowInstanceIPRunE(
	cmd *cobra.Command,
	instanceID string,
	wait time.Duration,
	stateWaiter *waiter.Waiter,
) error {
	address, err := stateWaiter.AwaitAddress(cmd.Context(), instanceID, wait, waiter.DefaultAddressPollInterval)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped by the waiter
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), address)
	if err != nil {
		return fmt.Errorf("failed to write address: %w", err)
	}

	return nil
}
