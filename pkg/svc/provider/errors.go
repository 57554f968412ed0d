package provider

import (
	"errors"
	"fmt"
)

// Common errors for provider operations.
var (
	// ErrAuth is returned when credentials are missing or rejected by the provider.
	ErrAuth = errors.New("authentication failed")

	// ErrProvider is returned for any other API-level failure.
	ErrProvider = errors.New("provider request failed")

	// ErrNotFound is returned when the requested instance does not exist.
	// It is a variant of ErrProvider.
	ErrNotFound = fmt.Errorf("%w: instance not found", ErrProvider)

	// ErrProviderUnavailable is returned when the provider has no usable client.
	ErrProviderUnavailable = errors.New("provider is not available")

	// ErrUnsupportedProvider is returned for an unknown provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// APIError describes a failed provider API call.
type APIError struct {
	// Kind is ErrAuth, ErrNotFound or ErrProvider.
	Kind error
	// Op names the API operation, e.g. "DescribeInstances".
	Op string
	// Code is the provider's error code, if any.
	Code string
	// Retryable marks transient failures such as throttling or 5xx responses.
	Retryable bool
	// Err is the underlying SDK error.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Op, e.Code, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause for errors.Is/errors.As consumers.
func (e *APIError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsRetryable returns true if err is a transient provider error that may succeed on retry.
// Authentication errors are never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, ErrAuth) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}

	return false
}
