package waiter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
)

// ErrInvalidDesiredState is returned for an action that maps to no desired state.
var ErrInvalidDesiredState = errors.New("invalid desired state: use 'start' or 'stop'")

// DesiredState is the target of a transition request.
type DesiredState string

const (
	// DesiredRunning asks for the instance to be running.
	DesiredRunning DesiredState = "running"
	// DesiredStopped asks for the instance to be stopped.
	DesiredStopped DesiredState = "stopped"
)

// ParseDesiredState accepts an action ("start", "stop") or a state name ("running", "stopped").
func ParseDesiredState(value string) (DesiredState, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "start", "running":
		return DesiredRunning, nil
	case "stop", "stopped":
		return DesiredStopped, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDesiredState, value)
	}
}

// Target returns the lifecycle state that satisfies the desired state.
func (d DesiredState) Target() provider.LifecycleState {
	return provider.LifecycleState(d)
}

// Verb returns the action that moves an instance towards d.
func (d DesiredState) Verb() string {
	if d == DesiredRunning {
		return "start"
	}

	return "stop"
}

// failureStates lists, per desired state, the lifecycle states from which the provider
// will not move the instance to the target without a new explicit request.
//
//nolint:gochecknoglobals // Package-level constant for state classification
var failureStates = map[DesiredState][]provider.LifecycleState{
	DesiredRunning: {provider.StateStopping, provider.StateShuttingDown, provider.StateTerminated},
	DesiredStopped: {provider.StatePending, provider.StateShuttingDown, provider.StateTerminated},
}

// IsFailureState reports whether observing state rules out ever reaching d.
func IsFailureState(d DesiredState, state provider.LifecycleState) bool {
	for _, failure := range failureStates[d] {
		if failure == state {
			return true
		}
	}

	return false
}

// isTransitioningTo reports whether the provider is already moving the instance to d.
func isTransitioningTo(d DesiredState, state provider.LifecycleState) bool {
	return (d == DesiredRunning && state == provider.StatePending) ||
		(d == DesiredStopped && state == provider.StateStopping)
}

// evaluate decides whether an observation ends the wait.
func evaluate(desired DesiredState, instance provider.Instance) (Outcome, bool) {
	switch {
	case instance.State == desired.Target():
		return Outcome{Result: Reached, State: instance.State, Instance: instance}, true
	case IsFailureState(desired, instance.State):
		return Outcome{
			Result:   Failed,
			State:    instance.State,
			Instance: instance,
			Reason: fmt.Sprintf(
				"instance %s is %s and cannot become %s",
				instance.ID, instance.State, desired,
			),
		}, true
	default:
		return Outcome{}, false
	}
}
