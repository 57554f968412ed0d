package instance

import (
	"fmt"

	"github.com/devantler-tech/vmctl/pkg/cli/ui/instancetable"
	runtime "github.com/devantler-tech/vmctl/pkg/di"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/spf13/cobra"
)

// OutputFlagName selects the listing format.
const OutputFlagName = "output"

// NewShowInstancesCmd creates the show_instances command.
func NewShowInstancesCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "show_instances",
		Aliases: []string{"show-instances", "list"},
		Short:   "List all instances",
		Long: `List every instance visible to the configured credentials with its state and public address.

Examples:
  # Table output
  vmctl show_instances

  # YAML output for scripts
  vmctl show_instances -o yaml`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: runtime.RunEWithRuntime(
			runtimeContainer,
			func(cmd *cobra.Command, _ []string, injector runtime.Injector) error {
				format, err := instancetable.ParseFormat(output)
				if err != nil {
					return err
				}

				prov, err := runtime.ResolveProvider(injector)
				if err != nil {
					return err
				}

				return HandleShowInstancesRunE(cmd, prov, format)
			},
		),
	}

	cmd.Flags().StringVarP(&output, OutputFlagName, "o", string(instancetable.FormatTable), "output format: table or yaml")

	return cmd
}

// HandleShowInstancesRunE writes every instance in the given format.
// Exported for testing purposes.
func HandleShowInstancesRunE(cmd *cobra.Command, prov provider.Provider, format instancetable.Format) error {
	instances, err := prov.ListInstances(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list instances: %w", err)
	}

	return instancetable.Write(cmd.OutOrStdout(), instances, format) //nolint:wrapcheck // wrapped by instancetable
}
