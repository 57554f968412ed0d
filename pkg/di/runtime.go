package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency container handed to modules and handlers.
type Injector = do.Injector

// Module registers services on an injector.
type Module func(Injector) error

// Runtime creates a fresh injector per invocation and registers its modules on it.
type Runtime struct {
	modules []Module
}

// New creates a runtime with the given base modules.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke registers the base modules followed by extra, then runs handler.
// Nil modules are skipped. The injector is shut down when handler returns.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()

	defer func() {
		_ = injector.Shutdown()
	}()

	modules := make([]Module, 0, len(r.modules)+len(extra))
	modules = append(modules, r.modules...)
	modules = append(modules, extra...)

	for _, module := range modules {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts a handler to cobra's RunE. The executing command is
// registered on the injector so providers can read its flags and writers.
func RunEWithRuntime(
	runtime *Runtime,
	handler func(cmd *cobra.Command, args []string, injector Injector) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runtime.Invoke(func(injector Injector) error {
			return handler(cmd, args, injector)
		}, provideCommand(cmd))
	}
}

func provideCommand(cmd *cobra.Command) Module {
	return func(i Injector) error {
		do.ProvideValue(i, cmd)

		return nil
	}
}
