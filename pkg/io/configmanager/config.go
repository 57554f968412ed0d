package configmanager

import (
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/provider/aws"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
)

// Provider names accepted by --provider.
const (
	ProviderAWS     = "aws"
	ProviderHetzner = "hetzner"
)

// Config holds the resolved settings of one invocation.
type Config struct {
	Provider string        `mapstructure:"provider"`
	EnvFile  string        `mapstructure:"env-file"`
	Verbose  bool          `mapstructure:"verbose"`
	AWS      AWSConfig     `mapstructure:"aws"`
	Hetzner  HetznerConfig `mapstructure:"hetzner"`
	Wait     WaitConfig    `mapstructure:"wait"`
}

// AWSConfig holds EC2 credentials and region.
type AWSConfig struct {
	AccessKeyID     string `mapstructure:"access-key-id"`
	SecretAccessKey string `mapstructure:"secret-access-key"`
	SessionToken    string `mapstructure:"session-token"`
	Region          string `mapstructure:"region"`
}

// HetznerConfig holds the Hetzner Cloud API token.
type HetznerConfig struct {
	Token string `mapstructure:"token"`
}

// WaitConfig holds the state waiter budget.
type WaitConfig struct {
	PollInterval     time.Duration `mapstructure:"poll-interval"`
	MaxAttempts      int           `mapstructure:"max-attempts"`
	TransientRetries int           `mapstructure:"transient-retries"`
	RetryBaseDelay   time.Duration `mapstructure:"retry-base-delay"`
	RetryMaxDelay    time.Duration `mapstructure:"retry-max-delay"`
}

// Validate checks the provider name and the wait budget. Credentials are checked
// when the provider client is built.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderAWS, ProviderHetzner:
	default:
		return fmt.Errorf("%w: %q (use %s or %s)",
			provider.ErrUnsupportedProvider, c.Provider, ProviderAWS, ProviderHetzner)
	}

	err := c.WaitOptions().Validate()
	if err != nil {
		return fmt.Errorf("invalid wait settings: %w", err)
	}

	return nil
}

// AWSCredentials returns the EC2 credentials.
func (c *Config) AWSCredentials() aws.Credentials {
	return aws.Credentials{
		AccessKeyID:     c.AWS.AccessKeyID,
		SecretAccessKey: c.AWS.SecretAccessKey,
		SessionToken:    c.AWS.SessionToken,
		Region:          c.AWS.Region,
	}
}

// WaitOptions returns the state waiter options.
func (c *Config) WaitOptions() waiter.Options {
	return waiter.Options{
		PollInterval:     c.Wait.PollInterval,
		MaxAttempts:      c.Wait.MaxAttempts,
		TransientRetries: c.Wait.TransientRetries,
		RetryBaseDelay:   c.Wait.RetryBaseDelay,
		RetryMaxDelay:    c.Wait.RetryMaxDelay,
	}
}
