// Package di wires vmctl's services with samber/do: one injector per command invocation,
// built from modules that register config, logger, cloud provider and state waiter.
package di
