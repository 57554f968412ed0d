package aws

import (
	"errors"

	"github.com/aws/smithy-go"
	"github.com/devantler-tech/vmctl/pkg/client/netretry"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
)

// authErrorCodes are EC2/STS error codes caused by missing, invalid or expired credentials.
//
//nolint:gochecknoglobals // Package-level constant for error code classification
var authErrorCodes = map[string]struct{}{
	"AuthFailure":                 {},
	"UnauthorizedOperation":       {},
	"InvalidClientTokenId":        {},
	"SignatureDoesNotMatch":       {},
	"ExpiredToken":                {},
	"RequestExpired":              {},
	"MissingAuthenticationToken":  {},
	"UnrecognizedClientException": {},
	"AccessDenied":                {},
	"OptInRequired":               {},
}

// notFoundErrorCodes are EC2 error codes for unknown or malformed instance ids.
//
//nolint:gochecknoglobals // Package-level constant for error code classification
var notFoundErrorCodes = map[string]struct{}{
	"InvalidInstanceID.NotFound":  {},
	"InvalidInstanceID.Malformed": {},
}

// retryableErrorCodes are transient EC2 error codes that warrant a retry.
//
//nolint:gochecknoglobals // Package-level constant for error code classification
var retryableErrorCodes = map[string]struct{}{
	"RequestLimitExceeded": {},
	"Throttling":           {},
	"ThrottlingException":  {},
	"InternalError":        {},
	"InternalFailure":      {},
	"ServiceUnavailable":   {},
	"Unavailable":          {},
}

// classifyError converts an SDK error into a *provider.APIError.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	apiErr := &provider.APIError{
		Kind: provider.ErrProvider,
		Op:   op,
		Err:  err,
	}

	var smithyErr smithy.APIError
	if !errors.As(err, &smithyErr) {
		// Transport-level failure: no response code to go by.
		apiErr.Retryable = netretry.IsRetryable(err)

		return apiErr
	}

	apiErr.Code = smithyErr.ErrorCode()

	if _, ok := authErrorCodes[apiErr.Code]; ok {
		apiErr.Kind = provider.ErrAuth

		return apiErr
	}

	if _, ok := notFoundErrorCodes[apiErr.Code]; ok {
		apiErr.Kind = provider.ErrNotFound

		return apiErr
	}

	_, apiErr.Retryable = retryableErrorCodes[apiErr.Code]
	if !apiErr.Retryable && smithyErr.ErrorFault() == smithy.FaultServer {
		apiErr.Retryable = true
	}

	return apiErr
}
