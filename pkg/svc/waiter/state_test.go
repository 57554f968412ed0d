package waiter_test

import (
	"testing"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDesiredState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    waiter.DesiredState
		wantErr bool
	}{
		{input: "start", want: waiter.DesiredRunning},
		{input: "running", want: waiter.DesiredRunning},
		{input: " Stop ", want: waiter.DesiredStopped},
		{input: "stopped", want: waiter.DesiredStopped},
		{input: "reboot", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := waiter.ParseDesiredState(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, waiter.ErrInvalidDesiredState)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestDesiredState_TargetAndVerb(t *testing.T) {
	t.Parallel()

	assert.Equal(t, provider.StateRunning, waiter.DesiredRunning.Target())
	assert.Equal(t, provider.StateStopped, waiter.DesiredStopped.Target())
	assert.Equal(t, "start", waiter.DesiredRunning.Verb())
	assert.Equal(t, "stop", waiter.DesiredStopped.Verb())
}

func TestIsFailureState(t *testing.T) {
	t.Parallel()

	assert.True(t, waiter.IsFailureState(waiter.DesiredRunning, provider.StateTerminated))
	assert.True(t, waiter.IsFailureState(waiter.DesiredRunning, provider.StateStopping))
	assert.False(t, waiter.IsFailureState(waiter.DesiredRunning, provider.StatePending))
	assert.True(t, waiter.IsFailureState(waiter.DesiredStopped, provider.StateShuttingDown))
	assert.False(t, waiter.IsFailureState(waiter.DesiredStopped, provider.StateStopping))
	assert.False(t, waiter.IsFailureState(waiter.DesiredStopped, provider.StateUnknown))
}

func TestResult_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "reached", waiter.Reached.String())
	assert.Equal(t, "timed out", waiter.TimedOut.String())
	assert.Equal(t, "failed", waiter.Failed.String())
}
