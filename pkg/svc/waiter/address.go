package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/siderolabs/go-retry/retry"
)

// DefaultAddressPollInterval is the delay between two address lookups.
const DefaultAddressPollInterval = 2 * time.Second

// ErrNoAddress is returned when an instance has no public address.
var ErrNoAddress = errors.New("instance has no public address")

// AwaitAddress returns the public address of the instance, polling for up to timeout
// while the instance is running or starting but has not been assigned one yet.
// A zero timeout performs a single lookup.
func (w *Waiter) AwaitAddress(
	ctx context.Context,
	id string,
	timeout, interval time.Duration,
) (string, error) {
	if timeout <= 0 {
		instance, err := provider.DescribeInstance(ctx, w.provider, id)
		if err != nil {
			return "", err
		}

		return addressOf(instance)
	}

	if interval <= 0 {
		interval = DefaultAddressPollInterval
	}

	var (
		address  string
		terminal error
		lastErr  error
	)

	err := retry.Constant(timeout, retry.WithUnits(interval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			instance, describeErr := provider.DescribeInstance(ctx, w.provider, id)
			if describeErr != nil {
				if provider.IsRetryable(describeErr) {
					lastErr = describeErr

					return retry.ExpectedError(describeErr)
				}

				terminal = describeErr

				return describeErr
			}

			found, addrErr := addressOf(instance)
			if addrErr == nil {
				address = found

				return nil
			}

			if instance.State != provider.StateRunning && instance.State != provider.StatePending {
				terminal = addrErr

				return addrErr
			}

			lastErr = addrErr

			w.logger.WithField("instance", id).Debug("waiting for public address")

			return retry.ExpectedError(addrErr)
		})

	switch {
	case err == nil:
		return address, nil
	case terminal != nil:
		return "", terminal
	case lastErr != nil:
		return "", fmt.Errorf("gave up after %s: %w", timeout, lastErr)
	default:
		return "", fmt.Errorf("%w: instance %s: %w", ErrNoAddress, id, err)
	}
}

// addressOf returns the public address or ErrNoAddress.
func addressOf(instance provider.Instance) (string, error) {
	if instance.HasPublicAddress() {
		return instance.PublicAddress, nil
	}

	return "", fmt.Errorf("%w: instance %s is %s", ErrNoAddress, instance.ID, instance.State)
}
