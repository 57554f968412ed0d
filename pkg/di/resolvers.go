package di

import (
	"fmt"

	"github.com/devantler-tech/vmctl/pkg/io/configmanager"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveConfig retrieves the configuration from the injector with consistent error handling.
func ResolveConfig(injector Injector) (*configmanager.Config, error) {
	config, err := do.Invoke[*configmanager.Config](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve config dependency: %w", err)
	}

	return config, nil
}

// ResolveLogger retrieves the logger from the injector with consistent error handling.
func ResolveLogger(injector Injector) (logrus.FieldLogger, error) {
	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}

	return logger, nil
}

// ResolveProvider retrieves the cloud provider from the injector with consistent error handling.
func ResolveProvider(injector Injector) (provider.Provider, error) {
	prov, err := do.Invoke[provider.Provider](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provider dependency: %w", err)
	}

	return prov, nil
}

// ResolveWaiter retrieves the state waiter from the injector with consistent error handling.
func ResolveWaiter(injector Injector) (*waiter.Waiter, error) {
	stateWaiter, err := do.Invoke[*waiter.Waiter](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve waiter dependency: %w", err)
	}

	return stateWaiter, nil
}

// Handler decorators.

// WithWaiter decorates a handler to automatically resolve the state waiter.
func WithWaiter(
	handler func(cmd *cobra.Command, args []string, injector Injector, stateWaiter *waiter.Waiter) error,
) func(cmd *cobra.Command, args []string, injector Injector) error {
	return func(cmd *cobra.Command, args []string, injector Injector) error {
		stateWaiter, err := ResolveWaiter(injector)
		if err != nil {
			return err
		}

		return handler(cmd, args, injector, stateWaiter)
	}
}
