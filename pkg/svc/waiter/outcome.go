package waiter

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
)

// Errors returned by Outcome.Err for outcomes other than Reached.
var (
	// ErrWaitFailed is returned when the instance entered a state incompatible with the target.
	ErrWaitFailed = errors.New("instance cannot reach the desired state")
	// ErrWaitTimedOut is returned when the poll budget ran out before the target was observed.
	ErrWaitTimedOut = errors.New("timed out waiting for instance state")
)

// Result is the kind of a wait outcome.
type Result int

const (
	// Reached means the desired state was observed.
	Reached Result = iota
	// TimedOut means MaxAttempts polls ran without observing the desired state.
	TimedOut
	// Failed means a state incompatible with the desired state was observed.
	Failed
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case Reached:
		return "reached"
	case TimedOut:
		return "timed out"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Outcome is the definitive result of one AwaitState call.
type Outcome struct {
	Result Result
	// State is the last observed lifecycle state.
	State provider.LifecycleState
	// Reason explains a Failed outcome.
	Reason string
	// Attempts is the number of polls consumed by the wait loop. The observation made
	// before the transition request is not counted.
	Attempts int
	// Requested reports whether a transition request was issued.
	Requested bool
	// Instance is the last observed instance.
	Instance provider.Instance
}

// Err converts a non-Reached outcome into an error for the command boundary.
func (o Outcome) Err() error {
	switch o.Result {
	case Reached:
		return nil
	case Failed:
		return fmt.Errorf("%w: %s", ErrWaitFailed, o.Reason)
	case TimedOut:
		return fmt.Errorf(
			"%w: instance %s still %s after %d polls",
			ErrWaitTimedOut, o.Instance.ID, o.State, o.Attempts,
		)
	default:
		return fmt.Errorf("unexpected wait result %s", o.Result)
	}
}
