package configmanager

import (
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/spf13/pflag"
)

// Global flag names.
const (
	FlagConfig           = "config"
	FlagEnvFile          = "env-file"
	FlagProvider         = "provider"
	FlagRegion           = "region"
	FlagPollInterval     = "poll-interval"
	FlagMaxAttempts      = "max-attempts"
	FlagTransientRetries = "transient-retries"
	FlagVerbose          = "verbose"
)

// DefaultEnvFile is the dotenv file read when --env-file is not given.
const DefaultEnvFile = ".env"

// flagKeys maps flag names onto config keys.
//
//nolint:gochecknoglobals // Package-level constant for flag binding
var flagKeys = map[string]string{
	FlagEnvFile:          "env-file",
	FlagProvider:         "provider",
	FlagRegion:           "aws.region",
	FlagPollInterval:     "wait.poll-interval",
	FlagMaxAttempts:      "wait.max-attempts",
	FlagTransientRetries: "wait.transient-retries",
	FlagVerbose:          "verbose",
}

// AddFlags registers the global flags on flags.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfig, "", "config file (default is $HOME/.vmctl.yaml)")
	flags.String(FlagEnvFile, DefaultEnvFile, "dotenv file with credentials")
	flags.String(FlagProvider, ProviderAWS, "cloud provider: aws or hetzner")
	flags.String(FlagRegion, "", "AWS region (overrides AWS_DEFAULT_REGION)")
	flags.Duration(FlagPollInterval, waiter.DefaultPollInterval, "delay between two state polls")
	flags.Int(FlagMaxAttempts, waiter.DefaultMaxAttempts, "number of state polls before giving up")
	flags.Int(
		FlagTransientRetries,
		waiter.DefaultTransientRetries,
		"retries of a transient provider error per poll",
	)
	flags.BoolP(FlagVerbose, "v", false, "log poll attempts and provider calls")
}
