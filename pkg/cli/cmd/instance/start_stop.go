package instance

import (
	"errors"
	"fmt"
	"time"

	"github.com/devantler-tech/vmctl/pkg/cli/ui/prompt"
	runtime "github.com/devantler-tech/vmctl/pkg/di"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/devantler-tech/vmctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// Flag names for the lifecycle commands.
const (
	ActionFlagName         = "action"
	AddressTimeoutFlagName = "address-timeout"
)

// DefaultAddressTimeout bounds the wait for a public address after a start.
const DefaultAddressTimeout = 30 * time.Second

// ErrActionRequired is returned when no action was given and no terminal is attached to ask for one.
var ErrActionRequired = errors.New("--action is required when stdin is not a terminal")

const startStopLongDesc = `Start or stop an instance and wait until it reaches the requested state.

The command finishes when the instance is running (start) or stopped (stop),
when it enters a state it cannot recover from, or when the poll budget runs out.
An instance that is already in the requested state is left untouched.

Without --action the action is asked for interactively; pipelines must pass it.

Examples:
  # Stop an instance
  vmctl start_stop i-0123456789abcdef0 --action stop

  # Start a Hetzner server and poll every 5 seconds
  vmctl start_stop 4711 --action start --provider hetzner --poll-interval 5s`

// TransitionOptions tunes a start or stop beyond the wait options.
type TransitionOptions struct {
	// AddressTimeout bounds the wait for a public address after a start. Zero means one lookup.
	AddressTimeout time.Duration
	// AddressPollInterval is the delay between two address lookups.
	AddressPollInterval time.Duration
}

// NewStartStopCmd creates the start_stop command.
func NewStartStopCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		action string
		opts   TransitionOptions
	)

	cmd := &cobra.Command{
		Use:          "start_stop <instance-id>",
		Aliases:      []string{"start-stop"},
		Short:        "Start or stop an instance and wait for the result",
		Long:         startStopLongDesc,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: runtime.RunEWithRuntime(
			runtimeContainer,
			runtime.WithWaiter(
				func(cmd *cobra.Command, args []string, _ runtime.Injector, stateWaiter *waiter.Waiter) error {
					desired, err := resolveAction(cmd, args[0], action)
					if err != nil {
						return err
					}

					return HandleTransitionRunE(cmd, args[0], desired, stateWaiter, opts)
				},
			),
		),
	}

	cmd.Flags().StringVarP(&action, ActionFlagName, "a", "", "action to perform: start or stop")
	addAddressFlags(cmd, &opts)

	return cmd
}

// HandleTransitionRunE moves the instance to desired and reports the outcome.
// After a start the public address is reported as well.
// Exported for testing purposes.
func HandleTransitionRunE(
	cmd *cobra.Command,
	instanceID string,
	desired waiter.DesiredState,
	stateWaiter *waiter.Waiter,
	opts TransitionOptions,
) error {
	out := cmd.OutOrStdout()
	startedAt := time.Now()

	notify.Activityf(out, "%s instance %s", progressive(desired), instanceID)

	outcome, err := stateWaiter.AwaitState(cmd.Context(), instanceID, desired)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped by the waiter
	}

	if outcome.Result != waiter.Reached {
		return outcome.Err()
	}

	if !outcome.Requested && outcome.Attempts == 0 {
		notify.Infof(out, "instance %s is already %s", instanceID, outcome.State)
	} else {
		notify.SuccessWithElapsedf(out, time.Since(startedAt), "instance %s is %s", instanceID, outcome.State)
	}

	if desired != waiter.DesiredRunning {
		return nil
	}

	return reportAddress(cmd, instanceID, outcome, stateWaiter, opts)
}

// reportAddress prints the public address of a running instance. A missing address only warns.
func reportAddress(
	cmd *cobra.Command,
	instanceID string,
	outcome waiter.Outcome,
	stateWaiter *waiter.Waiter,
	opts TransitionOptions,
) error {
	out := cmd.OutOrStdout()

	if outcome.Instance.HasPublicAddress() {
		notify.Infof(out, "public address: %s", outcome.Instance.PublicAddress)

		return nil
	}

	address, err := stateWaiter.AwaitAddress(
		cmd.Context(), instanceID, opts.AddressTimeout, opts.AddressPollInterval,
	)

	switch {
	case err == nil:
		notify.Infof(out, "public address: %s", address)

		return nil
	case errors.Is(err, waiter.ErrNoAddress):
		notify.Warningf(out, "instance %s has no public address", instanceID)

		return nil
	default:
		return fmt.Errorf("failed to look up public address: %w", err)
	}
}

func resolveAction(cmd *cobra.Command, instanceID, action string) (waiter.DesiredState, error) {
	if action != "" {
		return waiter.ParseDesiredState(action)
	}

	if !prompt.IsTTY() {
		return "", ErrActionRequired
	}

	return prompt.PromptForAction(cmd.OutOrStdout(), cmd.InOrStdin(), instanceID)
}

func addAddressFlags(cmd *cobra.Command, opts *TransitionOptions) {
	cmd.Flags().DurationVar(
		&opts.AddressTimeout,
		AddressTimeoutFlagName,
		DefaultAddressTimeout,
		"how long to wait for a public address after a start (0 looks once)",
	)

	opts.AddressPollInterval = waiter.DefaultAddressPollInterval
}

func progressive(desired waiter.DesiredState) string {
	if desired == waiter.DesiredRunning {
		return "starting"
	}

	return "stopping"
}
