// Package configmanager loads vmctl settings from defaults, an optional config file,
// a dotenv file, the environment and command-line flags.
package configmanager
