package cmd_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/devantler-tech/vmctl/pkg/cli/cmd"
	"github.com/devantler-tech/vmctl/pkg/cli/cmd/instance"
	"github.com/devantler-tech/vmctl/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/vmctl/pkg/cli/ui/prompt"
	"github.com/devantler-tech/vmctl/pkg/di"
	"github.com/devantler-tech/vmctl/pkg/io/configmanager"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/provider/aws"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testInstanceID = "i-001"
	testAddress    = "203.0.113.5"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

// identityProvider is a mock provider that can also report a caller identity.
type identityProvider struct {
	*provider.MockProvider
}

func (p identityProvider) CallerIdentity(context.Context) (aws.Identity, error) {
	return aws.Identity{
		Account: "123456789012",
		ARN:     "arn:aws:iam::123456789012:user/ops",
		UserID:  "AIDAEXAMPLE",
	}, nil
}

func isolateEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN",
		"AWS_DEFAULT_REGION", "AWS_REGION", "HCLOUD_TOKEN",
		"VMCTL_PROVIDER", "VMCTL_CONFIG", "VMCTL_ENV_FILE", "VMCTL_VERBOSE",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	restore := prompt.SetTTYCheckerForTests(func() bool { return false })
	t.Cleanup(restore)
}

func providerModule(prov provider.Provider) di.Module {
	return func(i di.Injector) error {
		do.ProvideValue(i, prov)

		return nil
	}
}

// runRoot executes the root command against prov and returns stdout, stderr and the error.
func runRoot(t *testing.T, prov provider.Provider, args ...string) (string, string, error) {
	t.Helper()

	runtime := di.New(di.ProvideConfig, di.ProvideLogger, providerModule(prov), di.ProvideWaiter)
	root := cmd.NewRootCmdWithRuntime(runtime, "test", "test", "test")

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--"+configmanager.FlagPollInterval, "0s"))

	err := cmd.Execute(context.Background(), root)

	return stdout.String(), stderr.String(), err
}

func expectStates(prov *provider.MockProvider, instances ...provider.Instance) {
	for _, inst := range instances {
		prov.On("DescribeInstances", mock.Anything, []string{testInstanceID}).
			Return([]provider.Instance{inst}, nil).Once()
	}
}

func instanceIn(state provider.LifecycleState, address string) provider.Instance {
	return provider.Instance{ID: testInstanceID, State: state, PublicAddress: address}
}

func TestNewRootCmdVersionFormatting(t *testing.T) {
	t.Parallel()

	version := "1.2.3"
	commit := "abc123"
	date := "2025-08-17"
	root := cmd.NewRootCmd(version, commit, date)

	expectedVersion := version + " (Built on " + date + " from Git SHA " + commit + ")"
	assert.Equal(t, expectedVersion, root.Version)
}

func TestExecuteShowsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := cmd.NewRootCmd("1.2.3", "abc123", "2025-08-17")
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	_ = root.Execute()

	snaps.MatchSnapshot(t, strings.TrimSpace(out.String()))
}

func TestExecuteShowsHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := cmd.NewRootCmd("", "", "")
	root.SetOut(&out)
	root.SetArgs([]string{})

	require.NoError(t, root.Execute())

	help := out.String()
	for _, name := range []string{"start_stop", "start", "stop", "show_instances", "show_instance_ip", "whoami"} {
		assert.Contains(t, help, name)
	}

	assert.Contains(t, help, "--"+configmanager.FlagProvider)
	assert.Contains(t, help, "--"+configmanager.FlagEnvFile)
}

func TestNewRootCmdRegistersGlobalFlags(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("test", "test", "test")

	for _, name := range []string{
		configmanager.FlagConfig,
		configmanager.FlagEnvFile,
		configmanager.FlagProvider,
		configmanager.FlagRegion,
		configmanager.FlagPollInterval,
		configmanager.FlagMaxAttempts,
		configmanager.FlagTransientRetries,
		configmanager.FlagVerbose,
	} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "flag --%s", name)
	}
}

func TestStartStop_StartsAndWaits(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()
	expectStates(prov,
		instanceIn(provider.StateStopped, ""),
		instanceIn(provider.StatePending, ""),
		instanceIn(provider.StateRunning, testAddress),
	)
	prov.On("StartInstance", mock.Anything, testInstanceID).Return(nil).Once()

	stdout, _, err := runRoot(t, prov, "start_stop", testInstanceID, "--action", "start")

	require.NoError(t, err)
	assert.Contains(t, stdout, "✔ instance i-001 is running")
	assert.Contains(t, stdout, testAddress)
	prov.AssertExpectations(t)
}

func TestStartStop_KebabAlias(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StateStopped, ""))

	stdout, _, err := runRoot(t, prov, "start-stop", testInstanceID, "-a", "stop")

	require.NoError(t, err)
	assert.Contains(t, stdout, "instance i-001 is already stopped")
	prov.AssertNotCalled(t, "StopInstance", mock.Anything, mock.Anything)
}

func TestStartStop_ActionRequiredWithoutTerminal(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()

	_, _, err := runRoot(t, prov, "start_stop", testInstanceID)

	require.ErrorIs(t, err, instance.ErrActionRequired)
	assert.Equal(t, errorhandler.ExitError, errorhandler.ExitCode(err))
	prov.AssertNotCalled(t, "DescribeInstances", mock.Anything, mock.Anything)
}

func TestStartStop_PromptsOnTerminal(t *testing.T) {
	isolateEnv(t)

	restore := prompt.SetTTYCheckerForTests(func() bool { return true })
	t.Cleanup(restore)

	prov := provider.NewMockProvider()
	expectStates(prov,
		instanceIn(provider.StateRunning, testAddress),
		instanceIn(provider.StateStopped, ""),
	)
	prov.On("StopInstance", mock.Anything, testInstanceID).Return(nil).Once()

	runtime := di.New(di.ProvideConfig, di.ProvideLogger, providerModule(prov), di.ProvideWaiter)
	root := cmd.NewRootCmdWithRuntime(runtime, "test", "test", "test")

	var stdout bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stdout)
	root.SetIn(strings.NewReader("\n"))
	root.SetArgs([]string{"start_stop", testInstanceID, "--poll-interval", "0s"})

	require.NoError(t, cmd.Execute(context.Background(), root))
	assert.Contains(t, stdout.String(), "start or stop instance i-001?")
	assert.Contains(t, stdout.String(), "✔ instance i-001 is stopped")
	prov.AssertExpectations(t)
}

func TestStartStop_InvalidAction(t *testing.T) {
	isolateEnv(t)

	_, _, err := runRoot(t, provider.NewMockProvider(), "start_stop", testInstanceID, "--action", "reboot")

	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid desired state")
}

func TestStop_FailedOutcomeExitCode(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StateTerminated, ""))

	_, _, err := runRoot(t, prov, "stop", testInstanceID)

	require.Error(t, err)
	assert.Equal(t, errorhandler.ExitFailed, errorhandler.ExitCode(err))
}

func TestStart_TimedOutExitCode(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()
	expectStates(prov,
		instanceIn(provider.StateStopped, ""),
		instanceIn(provider.StatePending, ""),
		instanceIn(provider.StatePending, ""),
	)
	prov.On("StartInstance", mock.Anything, testInstanceID).Return(nil).Once()

	_, _, err := runRoot(t, prov, "start", testInstanceID, "--max-attempts", "2")

	require.Error(t, err)
	assert.Equal(t, errorhandler.ExitTimedOut, errorhandler.ExitCode(err))
	prov.AssertNumberOfCalls(t, "StartInstance", 1)
}

func TestStart_UnknownInstanceExitCode(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()
	prov.On("DescribeInstances", mock.Anything, []string{testInstanceID}).
		Return([]provider.Instance{}, nil).Once()

	_, _, err := runRoot(t, prov, "start", testInstanceID)

	require.Error(t, err)
	assert.Equal(t, errorhandler.ExitNotFound, errorhandler.ExitCode(err))
}

func TestShowInstances(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()
	prov.On("ListInstances", mock.Anything).Return([]provider.Instance{
		{ID: testInstanceID, Name: "web", State: provider.StateRunning, PublicAddress: testAddress},
	}, nil).Once()

	stdout, _, err := runRoot(t, prov, "show_instances")

	require.NoError(t, err)
	assert.Contains(t, stdout, "web")
	assert.Contains(t, stdout, testAddress)
}

func TestShowInstances_RejectsUnknownOutput(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()

	_, _, err := runRoot(t, prov, "show_instances", "--output", "xml")

	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported output format")
	prov.AssertNotCalled(t, "ListInstances", mock.Anything)
}

func TestShowInstanceIP(t *testing.T) {
	isolateEnv(t)

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StateRunning, testAddress))

	stdout, _, err := runRoot(t, prov, "show_instance_ip", testInstanceID)

	require.NoError(t, err)
	assert.Equal(t, testAddress+"\n", stdout)
}

func TestWhoami(t *testing.T) {
	isolateEnv(t)

	prov := identityProvider{MockProvider: provider.NewMockProvider()}

	stdout, _, err := runRoot(t, prov, "whoami")

	require.NoError(t, err)
	assert.Contains(t, stdout, "account: 123456789012")
	assert.Contains(t, stdout, "arn: arn:aws:iam::123456789012:user/ops")
}

func TestWhoami_UnsupportedProvider(t *testing.T) {
	isolateEnv(t)

	_, _, err := runRoot(t, provider.NewMockProvider(), "whoami")

	require.ErrorIs(t, err, provider.ErrUnsupportedProvider)
}

func TestRealRuntime_MissingCredentialsIsAuthError(t *testing.T) {
	isolateEnv(t)

	root := cmd.NewRootCmd("test", "test", "test")

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"show_instances"})

	err := cmd.Execute(context.Background(), root)

	require.ErrorIs(t, err, provider.ErrAuth)
	assert.Equal(t, errorhandler.ExitAuth, errorhandler.ExitCode(err))
}
