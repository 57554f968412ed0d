package di

import (
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/vmctl/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/vmctl/pkg/io/configmanager"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/provider/aws"
	"github.com/devantler-tech/vmctl/pkg/svc/provider/hetzner"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by the root command.
// It registers config, logger, cloud provider and state waiter.
func NewRuntime() *Runtime {
	return New(
		ProvideConfig,
		ProvideLogger,
		ProvideProvider,
		ProvideWaiter,
	)
}

// ProvideConfig registers the configuration resolved from the executing command's flags.
func ProvideConfig(i Injector) error {
	do.Provide(i, func(i Injector) (*configmanager.Config, error) {
		cmd, err := do.Invoke[*cobra.Command](i)
		if err != nil {
			return nil, fmt.Errorf("resolve command: %w", err)
		}

		bootstrap := logrus.New()
		bootstrap.SetOutput(logOutput(cmd))
		bootstrap.SetLevel(logrus.WarnLevel)

		return configmanager.NewConfigManager(cmd.Flags(), bootstrap).Load()
	})

	return nil
}

// ProvideLogger registers a stderr logger tagged with a per-invocation id.
func ProvideLogger(i Injector) error {
	do.Provide(i, func(i Injector) (logrus.FieldLogger, error) {
		cmd, err := do.Invoke[*cobra.Command](i)
		if err != nil {
			return nil, fmt.Errorf("resolve command: %w", err)
		}

		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		logger := logrus.New()
		logger.SetOutput(logOutput(cmd))
		logger.SetLevel(logrus.WarnLevel)

		if config.Verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		return logger.WithField("invocation", uuid.NewString()), nil
	})

	return nil
}

// ProvideProvider registers the cloud provider selected by the configuration.
func ProvideProvider(i Injector) error {
	do.Provide(i, func(i Injector) (provider.Provider, error) {
		cmd, err := do.Invoke[*cobra.Command](i)
		if err != nil {
			return nil, fmt.Errorf("resolve command: %w", err)
		}

		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		logger, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}

		logger = logger.WithField("provider", config.Provider)

		switch config.Provider {
		case configmanager.ProviderAWS:
			return aws.NewProviderFromCredentials(commandContext(cmd), config.AWSCredentials(), logger)
		case configmanager.ProviderHetzner:
			return hetzner.NewProviderFromToken(config.Hetzner.Token, logger)
		default:
			return nil, fmt.Errorf("%w: %q", provider.ErrUnsupportedProvider, config.Provider)
		}
	})

	return nil
}

// ProvideWaiter registers the state waiter for the configured provider.
func ProvideWaiter(i Injector) error {
	do.Provide(i, func(i Injector) (*waiter.Waiter, error) {
		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		logger, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}

		prov, err := ResolveProvider(i)
		if err != nil {
			return nil, err
		}

		return waiter.New(prov, config.WaitOptions(), waiter.WithLogger(logger))
	})

	return nil
}

// logOutput is the command's stderr, bypassing the executor's error capture.
func logOutput(cmd *cobra.Command) io.Writer {
	return errorhandler.DiagnosticWriter(cmd.Context(), cmd.ErrOrStderr())
}

// commandContext is the executing command's context, or Background before execution.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
