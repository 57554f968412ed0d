package configmanager

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/devantler-tech/vmctl/pkg/envvar"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables of vmctl's own settings.
const EnvPrefix = "VMCTL"

// DefaultConfigFileName is looked up in the home directory when --config is not given.
const DefaultConfigFileName = ".vmctl.yaml"

// credentialEnvBindings binds config keys to the provider SDKs' conventional variables.
// The first variable that is set wins.
//
//nolint:gochecknoglobals // Package-level constant for env binding
var credentialEnvBindings = map[string][]string{
	"aws.access-key-id":     {"AWS_ACCESS_KEY_ID"},
	"aws.secret-access-key": {"AWS_SECRET_ACCESS_KEY"},
	"aws.session-token":     {"AWS_SESSION_TOKEN"},
	"aws.region":            {"AWS_DEFAULT_REGION", "AWS_REGION"},
	"hetzner.token":         {"HCLOUD_TOKEN"},
}

// ConfigManager resolves a Config from all configuration sources.
// Precedence, lowest first: defaults, config file, dotenv file, environment, flags.
type ConfigManager struct {
	Viper *viper.Viper

	flags    *pflag.FlagSet
	logger   logrus.FieldLogger
	expander *envvar.Expander

	configFileUsed string
	envFileUsed    string
}

// NewConfigManager creates a manager that reads flags from the given flag set.
// A nil flag set uses defaults, files and environment only.
func NewConfigManager(flags *pflag.FlagSet, logger logrus.FieldLogger) *ConfigManager {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &ConfigManager{
		Viper:    InitializeViper(),
		flags:    flags,
		logger:   logger,
		expander: envvar.NewExpander(logger),
	}
}

// InitializeViper returns a Viper instance with defaults and environment bindings.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetDefault("provider", ProviderAWS)
	viperInstance.SetDefault("env-file", DefaultEnvFile)
	viperInstance.SetDefault("verbose", false)
	viperInstance.SetDefault("aws.access-key-id", "")
	viperInstance.SetDefault("aws.secret-access-key", "")
	viperInstance.SetDefault("aws.session-token", "")
	viperInstance.SetDefault("aws.region", "")
	viperInstance.SetDefault("hetzner.token", "")
	viperInstance.SetDefault("wait.poll-interval", waiter.DefaultPollInterval)
	viperInstance.SetDefault("wait.max-attempts", waiter.DefaultMaxAttempts)
	viperInstance.SetDefault("wait.transient-retries", waiter.DefaultTransientRetries)
	viperInstance.SetDefault("wait.retry-base-delay", waiter.DefaultRetryBaseDelay)
	viperInstance.SetDefault("wait.retry-max-delay", waiter.DefaultRetryMaxDelay)

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viperInstance.AutomaticEnv()

	for key, names := range credentialEnvBindings {
		_ = viperInstance.BindEnv(append([]string{key}, names...)...)
	}

	return viperInstance
}

// Load resolves and validates the configuration.
func (m *ConfigManager) Load() (*Config, error) {
	err := m.bindFlags()
	if err != nil {
		return nil, err
	}

	err = m.loadEnvFile()
	if err != nil {
		return nil, err
	}

	err = m.readConfigFile()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	err = m.Viper.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"provider":   config.Provider,
		"configFile": m.configFileUsed,
		"envFile":    m.envFileUsed,
	}).Debug("config loaded")

	return config, nil
}

// ConfigFileUsed returns the config file read by Load, if any.
func (m *ConfigManager) ConfigFileUsed() string {
	return m.configFileUsed
}

// EnvFileUsed returns the dotenv file read by Load, if any.
func (m *ConfigManager) EnvFileUsed() string {
	return m.envFileUsed
}

func (m *ConfigManager) bindFlags() error {
	if m.flags == nil {
		return nil
	}

	for name, key := range flagKeys {
		flag := m.flags.Lookup(name)
		if flag == nil {
			continue
		}

		err := m.Viper.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}

	return nil
}

// loadEnvFile exports the dotenv file into the process environment. Variables that
// are already set keep their value. A missing default file is not an error.
func (m *ConfigManager) loadEnvFile() error {
	path := strings.TrimSpace(m.Viper.GetString("env-file"))
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	switch {
	case err == nil:
		m.envFileUsed = path

		return nil
	case errors.Is(err, fs.ErrNotExist) && path == DefaultEnvFile:
		m.logger.WithField("envFile", path).Debug("no dotenv file")

		return nil
	default:
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
}

// readConfigFile reads the YAML config file after expanding ${VAR} placeholders.
func (m *ConfigManager) readConfigFile() error {
	path, explicit := m.configFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided by design
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}

		return fmt.Errorf("failed to read config file: %w", err)
	}

	m.Viper.SetConfigType("yaml")

	err = m.Viper.ReadConfig(bytes.NewReader(m.expander.ExpandBytes(data)))
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	m.configFileUsed = path

	return nil
}

func (m *ConfigManager) configFilePath() (string, bool) {
	if m.flags != nil {
		if path, err := m.flags.GetString(FlagConfig); err == nil && path != "" {
			return path, true
		}
	}

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path, true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	return filepath.Join(home, DefaultConfigFileName), false
}
