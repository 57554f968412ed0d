package instance_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devantler-tech/vmctl/pkg/cli/cmd/instance"
	"github.com/devantler-tech/vmctl/pkg/cli/ui/instancetable"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testInstanceID = "i-001"
	testAddress    = "203.0.113.5"
)

var errTestList = errors.New("list failed")

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newWaiter(t *testing.T, prov provider.Provider, maxAttempts int) *waiter.Waiter {
	t.Helper()

	opts := waiter.DefaultOptions()
	opts.MaxAttempts = maxAttempts

	stateWaiter, err := waiter.New(prov, opts, waiter.WithSleep(noSleep))
	require.NoError(t, err)

	return stateWaiter
}

func newCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())

	return cmd, &out
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

func TestHandleTransitionRunE_StartReportsAddress(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov,
		instanceIn(provider.StateStopped, ""),
		instanceIn(provider.StatePending, ""),
		instanceIn(provider.StateRunning, testAddress),
	)
	prov.On("StartInstance", mock.Anything, testInstanceID).Return(nil).Once()

	cmd, out := newCommand()

	err := instance.HandleTransitionRunE(
		cmd, testInstanceID, waiter.DesiredRunning, newWaiter(t, prov, 5), instance.TransitionOptions{},
	)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "► starting instance i-001")
	assert.Contains(t, out.String(), "✔ instance i-001 is running")
	assert.Contains(t, out.String(), "ℹ public address: "+testAddress)
	prov.AssertExpectations(t)
}

func TestHandleTransitionRunE_AlreadyRunningSendsNoRequest(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StateRunning, testAddress))

	cmd, out := newCommand()

	err := instance.HandleTransitionRunE(
		cmd, testInstanceID, waiter.DesiredRunning, newWaiter(t, prov, 5), instance.TransitionOptions{},
	)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "instance i-001 is already running")
	assert.NotContains(t, out.String(), "✔")
	prov.AssertNotCalled(t, "StartInstance", mock.Anything, mock.Anything)
	prov.AssertExpectations(t)
}

func TestHandleTransitionRunE_StopFromPendingFails(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StatePending, ""))

	cmd, _ := newCommand()

	err := instance.HandleTransitionRunE(
		cmd, testInstanceID, waiter.DesiredStopped, newWaiter(t, prov, 5), instance.TransitionOptions{},
	)

	require.ErrorIs(t, err, waiter.ErrWaitFailed)
	prov.AssertNotCalled(t, "StopInstance", mock.Anything, mock.Anything)
}

func TestHandleTransitionRunE_StopTimesOut(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov,
		instanceIn(provider.StateRunning, testAddress),
		instanceIn(provider.StateStopping, ""),
		instanceIn(provider.StateStopping, ""),
	)
	prov.On("StopInstance", mock.Anything, testInstanceID).Return(nil).Once()

	cmd, out := newCommand()

	err := instance.HandleTransitionRunE(
		cmd, testInstanceID, waiter.DesiredStopped, newWaiter(t, prov, 2), instance.TransitionOptions{},
	)

	require.ErrorIs(t, err, waiter.ErrWaitTimedOut)
	assert.Contains(t, err.Error(), "after 2 polls")
	assert.NotContains(t, out.String(), "✔")
	prov.AssertExpectations(t)
}

func TestHandleTransitionRunE_StopDoesNotLookUpAddress(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov,
		instanceIn(provider.StateRunning, testAddress),
		instanceIn(provider.StateStopped, ""),
	)
	prov.On("StopInstance", mock.Anything, testInstanceID).Return(nil).Once()

	cmd, out := newCommand()

	err := instance.HandleTransitionRunE(
		cmd, testInstanceID, waiter.DesiredStopped, newWaiter(t, prov, 5), instance.TransitionOptions{},
	)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "✔ instance i-001 is stopped")
	assert.NotContains(t, out.String(), "public address")
	prov.AssertExpectations(t)
}

func TestHandleTransitionRunE_MissingAddressOnlyWarns(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov,
		instanceIn(provider.StateStopped, ""),
		instanceIn(provider.StateRunning, ""),
		instanceIn(provider.StateRunning, ""),
	)
	prov.On("StartInstance", mock.Anything, testInstanceID).Return(nil).Once()

	cmd, out := newCommand()

	err := instance.HandleTransitionRunE(
		cmd, testInstanceID, waiter.DesiredRunning, newWaiter(t, prov, 5), instance.TransitionOptions{},
	)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "⚠ instance i-001 has no public address")
	prov.AssertExpectations(t)
}

func TestHandleTransitionRunE_RequestErrorIsReturned(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StateStopped, ""))
	prov.On("StartInstance", mock.Anything, testInstanceID).
		Return(&provider.APIError{Kind: provider.ErrAuth, Op: "StartInstances", Err: errTestList}).Once()

	cmd, _ := newCommand()

	err := instance.HandleTransitionRunE(
		cmd, testInstanceID, waiter.DesiredRunning, newWaiter(t, prov, 5), instance.TransitionOptions{},
	)

	require.ErrorIs(t, err, provider.ErrAuth)
	prov.AssertNumberOfCalls(t, "StartInstance", 1)
}

func TestHandleShowInstanceIPRunE(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StateRunning, testAddress))

	cmd, out := newCommand()

	err := instance.HandleShowInstanceIPRunE(cmd, testInstanceID, 0, newWaiter(t, prov, 1))

	require.NoError(t, err)
	assert.Equal(t, testAddress+"\n", out.String())
}

func TestHandleShowInstanceIPRunE_NoAddress(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	expectStates(prov, instanceIn(provider.StateStopped, ""))

	cmd, out := newCommand()

	err := instance.HandleShowInstanceIPRunE(cmd, testInstanceID, 0, newWaiter(t, prov, 1))

	require.ErrorIs(t, err, waiter.ErrNoAddress)
	assert.Empty(t, out.String())
}

func TestHandleShowInstanceIPRunE_UnknownInstance(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	prov.On("DescribeInstances", mock.Anything, []string{testInstanceID}).
		Return([]provider.Instance{}, nil).Once()

	cmd, _ := newCommand()

	err := instance.HandleShowInstanceIPRunE(cmd, testInstanceID, 0, newWaiter(t, prov, 1))

	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestHandleShowInstancesRunE(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	prov.On("ListInstances", mock.Anything).Return([]provider.Instance{
		{ID: "i-002", Name: "db", State: provider.StateStopped},
		{ID: "i-001", Name: "web", State: provider.StateRunning, PublicAddress: testAddress},
	}, nil).Once()

	cmd, out := newCommand()

	require.NoError(t, instance.HandleShowInstancesRunE(cmd, prov, instancetable.FormatTable))

	rendered := out.String()
	assert.Contains(t, rendered, "PUBLIC ADDRESS")
	assert.Contains(t, rendered, testAddress)
	assert.Less(t, strings.Index(rendered, "i-001"), strings.Index(rendered, "i-002"))
}

func TestHandleShowInstancesRunE_Empty(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	prov.On("ListInstances", mock.Anything).Return([]provider.Instance{}, nil).Once()

	cmd, out := newCommand()

	require.NoError(t, instance.HandleShowInstancesRunE(cmd, prov, instancetable.FormatTable))
	assert.Contains(t, out.String(), "no instances found")
}

func TestHandleShowInstancesRunE_ListError(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	prov.On("ListInstances", mock.Anything).
		Return(nil, &provider.APIError{Kind: provider.ErrProvider, Op: "DescribeInstances", Err: errTestList}).Once()

	cmd, _ := newCommand()

	err := instance.HandleShowInstancesRunE(cmd, prov, instancetable.FormatTable)

	require.ErrorIs(t, err, provider.ErrProvider)
	assert.ErrorContains(t, err, "failed to list instances")
}

func TestHandleShowInstancesRunE_YAML(t *testing.T) {
	t.Parallel()

	prov := provider.NewMockProvider()
	prov.On("ListInstances", mock.Anything).Return([]provider.Instance{
		{ID: testInstanceID, Name: "web", State: provider.StateRunning, PublicAddress: testAddress},
	}, nil).Once()

	cmd, out := newCommand()

	require.NoError(t, instance.HandleShowInstancesRunE(cmd, prov, instancetable.FormatYAML))
	assert.Contains(t, out.String(), "- id: i-001")
	assert.Contains(t, out.String(), "publicAddress: "+testAddress)
}
