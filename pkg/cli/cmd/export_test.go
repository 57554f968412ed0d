package cmd

// NewRootCmdWithRuntime exports newRootCmd so tests can swap the provider.
var NewRootCmdWithRuntime = newRootCmd
