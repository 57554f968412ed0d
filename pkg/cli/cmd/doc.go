// Package cmd provides the command-line interface for vmctl.
//
// This package contains the root command and delegates to subcommand packages:
//   - instance: start, stop and inspect compute instances
package cmd
