package waiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/devantler-tech/vmctl/pkg/client/netretry"
	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/sirupsen/logrus"
)

// Default wait settings. They match the EC2 instance_running/instance_stopped waiters.
const (
	// DefaultPollInterval is the delay between two polls.
	DefaultPollInterval = 15 * time.Second
	// DefaultMaxAttempts is the number of polls before giving up.
	DefaultMaxAttempts = 40
	// DefaultTransientRetries is how often a transient provider error is retried.
	DefaultTransientRetries = 1
	// DefaultRetryBaseDelay is the first backoff delay for transient errors.
	DefaultRetryBaseDelay = 2 * time.Second
	// DefaultRetryMaxDelay caps the backoff delay for transient errors.
	DefaultRetryMaxDelay = 30 * time.Second
)

// ErrInvalidOptions is returned for wait options that cannot produce an outcome.
var ErrInvalidOptions = errors.New("invalid wait options")

// Options configures a Waiter.
type Options struct {
	PollInterval     time.Duration
	MaxAttempts      int
	TransientRetries int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
}

// DefaultOptions returns the default wait settings.
func DefaultOptions() Options {
	return Options{
		PollInterval:     DefaultPollInterval,
		MaxAttempts:      DefaultMaxAttempts,
		TransientRetries: DefaultTransientRetries,
		RetryBaseDelay:   DefaultRetryBaseDelay,
		RetryMaxDelay:    DefaultRetryMaxDelay,
	}
}

// Validate checks that the options describe a finite, non-empty budget.
func (o Options) Validate() error {
	switch {
	case o.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidOptions, o.MaxAttempts)
	case o.PollInterval < 0:
		return fmt.Errorf("%w: poll interval must not be negative, got %s", ErrInvalidOptions, o.PollInterval)
	case o.TransientRetries < 0:
		return fmt.Errorf(
			"%w: transient retries must not be negative, got %d",
			ErrInvalidOptions, o.TransientRetries,
		)
	case o.RetryBaseDelay < 0 || o.RetryMaxDelay < 0:
		return fmt.Errorf("%w: retry delays must not be negative", ErrInvalidOptions)
	default:
		return nil
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option customises a Waiter.
type Option func(*Waiter)

// WithLogger sets the logger used for poll and retry diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(w *Waiter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithSleep replaces the sleep function. Tests use it to avoid real delays.
func WithSleep(sleep SleepFunc) Option {
	return func(w *Waiter) {
		if sleep != nil {
			w.sleep = sleep
		}
	}
}

// Waiter drives instances to a desired state. It holds no state between calls.
type Waiter struct {
	provider provider.Provider
	opts     Options
	logger   logrus.FieldLogger
	sleep    SleepFunc
}

// New creates a Waiter for the given provider.
func New(prov provider.Provider, opts Options, options ...Option) (*Waiter, error) {
	if prov == nil {
		return nil, provider.ErrProviderUnavailable
	}

	err := opts.Validate()
	if err != nil {
		return nil, err
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	waiter := &Waiter{
		provider: prov,
		opts:     opts,
		logger:   discard,
		sleep:    netretry.Sleep,
	}

	for _, option := range options {
		option(waiter)
	}

	return waiter, nil
}

// Options returns the options the waiter was built with.
func (w *Waiter) Options() Options {
	return w.opts
}

// AwaitState moves the instance towards desired and blocks until an outcome is known.
//
// The current state is observed first: an instance already in the desired state yields
// Reached without any request, and one in a failure state yields Failed. An instance
// already moving towards the target is only polled. Otherwise the start or stop request
// is issued exactly once and the instance is polled up to MaxAttempts times.
// Errors are returned for credential, provider and context failures only; Failed and
// TimedOut are outcomes.
func (w *Waiter) AwaitState(ctx context.Context, id string, desired DesiredState) (Outcome, error) {
	if desired != DesiredRunning && desired != DesiredStopped {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidDesiredState, desired)
	}

	logger := w.logger.WithFields(logrus.Fields{"instance": id, "desired": string(desired)})

	current, err := w.describe(ctx, logger, id)
	if err != nil {
		return Outcome{}, err
	}

	if outcome, done := evaluate(desired, current); done {
		logger.WithField("state", current.State).Debug("no transition needed")

		return outcome, nil
	}

	requested := false

	if isTransitioningTo(desired, current.State) {
		logger.WithField("state", current.State).Debug("transition already in progress")
	} else {
		err = w.request(ctx, id, desired)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to %s instance %s: %w", desired.Verb(), id, err)
		}

		requested = true

		logger.WithField("state", current.State).Debugf("%s requested", desired.Verb())
	}

	return w.poll(ctx, logger, current, desired, requested)
}

// poll re-describes the instance until evaluate reports an outcome or the budget is spent.
func (w *Waiter) poll(
	ctx context.Context,
	logger logrus.FieldLogger,
	last provider.Instance,
	desired DesiredState,
	requested bool,
) (Outcome, error) {
	id := last.ID
	missing := 0

	for attempt := 1; attempt <= w.opts.MaxAttempts; attempt++ {
		instance, err := w.describe(ctx, logger, id)

		switch {
		case errors.Is(err, provider.ErrNotFound) && missing < w.opts.TransientRetries:
			// Consecutive misses are tolerated up to TransientRetries times.
			missing++

			logger.WithField("attempt", attempt).Debug("instance not visible")
		case errors.Is(err, provider.ErrNotFound):
			return Outcome{Attempts: attempt, Requested: requested, State: last.State, Instance: last},
				fmt.Errorf("instance %s disappeared while waiting: %w", id, err)
		case err != nil:
			return Outcome{Attempts: attempt, Requested: requested, State: last.State, Instance: last}, err
		default:
			missing = 0
			last = instance

			logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"state":   instance.State,
			}).Debug("polled instance")

			if outcome, done := evaluate(desired, instance); done {
				outcome.Attempts = attempt
				outcome.Requested = requested

				return outcome, nil
			}
		}

		if attempt < w.opts.MaxAttempts {
			sleepErr := w.sleep(ctx, w.opts.PollInterval)
			if sleepErr != nil {
				return Outcome{Attempts: attempt, Requested: requested, State: last.State, Instance: last}, sleepErr
			}
		}
	}

	return Outcome{
		Result:    TimedOut,
		State:     last.State,
		Attempts:  w.opts.MaxAttempts,
		Requested: requested,
		Instance:  last,
	}, nil
}

// request issues the transition request. It is never retried: a request that was sent
// but whose response got lost must not be sent again.
func (w *Waiter) request(ctx context.Context, id string, desired DesiredState) error {
	if desired == DesiredRunning {
		return w.provider.StartInstance(ctx, id) //nolint:wrapcheck // wrapped by caller
	}

	return w.provider.StopInstance(ctx, id) //nolint:wrapcheck // wrapped by caller
}

// describe reads the instance, retrying transient provider errors with exponential backoff.
func (w *Waiter) describe(
	ctx context.Context,
	logger logrus.FieldLogger,
	id string,
) (provider.Instance, error) {
	for retry := 0; ; retry++ {
		instance, err := provider.DescribeInstance(ctx, w.provider, id)
		if err == nil || !provider.IsRetryable(err) || retry >= w.opts.TransientRetries {
			return instance, err
		}

		delay := netretry.ExponentialDelay(retry+1, w.opts.RetryBaseDelay, w.opts.RetryMaxDelay)

		logger.WithError(err).WithFields(logrus.Fields{
			"retry": retry + 1,
			"delay": delay,
		}).Debug("transient provider error, retrying")

		sleepErr := w.sleep(ctx, delay)
		if sleepErr != nil {
			return provider.Instance{}, sleepErr
		}
	}
}
