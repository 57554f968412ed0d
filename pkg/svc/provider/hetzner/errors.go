package hetzner

import (
	"errors"

	"github.com/devantler-tech/vmctl/pkg/client/netretry"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// retryableErrorCodes are Hetzner API error codes that warrant a retry.
// These represent transient conditions that may resolve on subsequent attempts.
//
//nolint:gochecknoglobals // Package-level constant for error code classification
var retryableErrorCodes = []hcloud.ErrorCode{
	hcloud.ErrorCodeResourceUnavailable, // Resource currently unavailable
	hcloud.ErrorCodeConflict,            // Resource changed during request
	hcloud.ErrorCodeTimeout,             // Request timed out
	hcloud.ErrorCodeRateLimitExceeded,   // Rate limit hit
	hcloud.ErrorCodeRobotUnavailable,    // Robot service unavailable
	hcloud.ErrorCodeLocked,              // Resource locked by another action
}

// IsRetryableHetznerError returns true if the error is a transient Hetzner API error
// that may succeed on retry.
func IsRetryableHetznerError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err, retryableErrorCodes...)
}

// classifyError converts an hcloud error into a *provider.APIError.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	apiErr := &provider.APIError{
		Kind: provider.ErrProvider,
		Op:   op,
		Err:  err,
	}

	var hcloudErr hcloud.Error
	if !errors.As(err, &hcloudErr) {
		apiErr.Retryable = netretry.IsRetryable(err)

		return apiErr
	}

	apiErr.Code = string(hcloudErr.Code)

	switch {
	case hcloud.IsError(err, hcloud.ErrorCodeUnauthorized, hcloud.ErrorCodeForbidden):
		apiErr.Kind = provider.ErrAuth
	case hcloud.IsError(err, hcloud.ErrorCodeNotFound):
		apiErr.Kind = provider.ErrNotFound
	default:
		apiErr.Retryable = IsRetryableHetznerError(err)
	}

	return apiErr
}
