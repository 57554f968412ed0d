// Package cli provides the command tree and terminal presentation for vmctl.
//
// This package is organized into subpackages:
//
//   - cli/cmd: Root command and instance subcommands
//   - cli/ui: User interface components (errorhandler, instancetable, prompt)
//
// Commands resolve their dependencies from the runtime container in pkg/di.
package cli
