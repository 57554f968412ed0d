package errorhandler

import (
	"context"
	"errors"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/devantler-tech/vmctl/pkg/svc/waiter"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitAuth        = 2
	ExitProvider    = 3
	ExitFailed      = 4
	ExitTimedOut    = 5
	ExitNotFound    = 6
	ExitInterrupted = 130
)

// ExitCode maps an error returned by a command onto a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, provider.ErrAuth):
		return ExitAuth
	case errors.Is(err, waiter.ErrWaitFailed), errors.Is(err, waiter.ErrNoAddress):
		return ExitFailed
	case errors.Is(err, waiter.ErrWaitTimedOut):
		return ExitTimedOut
	case errors.Is(err, provider.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, provider.ErrProvider):
		return ExitProvider
	default:
		return ExitError
	}
}

// Hint returns a follow-up line for errors the user can fix, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, provider.ErrAuth):
		return "set AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_DEFAULT_REGION " +
			"(or HCLOUD_TOKEN with --provider hetzner), or point --env-file at a dotenv file"
	case errors.Is(err, provider.ErrNotFound):
		return "run 'vmctl show_instances' to list the instance ids"
	default:
		return ""
	}
}
