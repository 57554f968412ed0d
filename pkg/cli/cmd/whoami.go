package cmd

import (
	"context"
	"fmt"

	runtime "github.com/devantler-tech/vmctl/pkg/di"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/provider/aws"
	"github.com/devantler-tech/vmctl/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// IdentityProvider is implemented by providers that can report the caller's identity.
type IdentityProvider interface {
	CallerIdentity(ctx context.Context) (aws.Identity, error)
}

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the configured credentials",
		Long: `Show the account, ARN and user id the configured AWS credentials belong to.

Use it to check credentials before starting or stopping an instance.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: runtime.RunEWithRuntime(
			runtimeContainer,
			func(cmd *cobra.Command, _ []string, injector runtime.Injector) error {
				prov, err := runtime.ResolveProvider(injector)
				if err != nil {
					return err
				}

				return HandleWhoamiRunE(cmd, prov)
			},
		),
	}
}

// HandleWhoamiRunE prints the caller identity.
// Exported for testing purposes.
func HandleWhoamiRunE(cmd *cobra.Command, prov provider.Provider) error {
	identityProvider, ok := prov.(IdentityProvider)
	if !ok {
		return fmt.Errorf("%w: whoami needs the aws provider", provider.ErrUnsupportedProvider)
	}

	identity, err := identityProvider.CallerIdentity(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get caller identity: %w", err)
	}

	out := cmd.OutOrStdout()

	notify.Successf(out, "credentials are valid")
	notify.Infof(out, "account: %s", identity.Account)
	notify.Infof(out, "arn: %s", identity.ARN)
	notify.Infof(out, "user id: %s", identity.UserID)

	return nil
}
