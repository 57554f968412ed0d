// Package io provides configuration input for vmctl.
//
// Subpackages:
//   - configmanager: Configuration loading from defaults, config file, .env file, environment and flags
package io
