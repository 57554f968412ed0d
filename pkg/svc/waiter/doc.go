// Package waiter turns the asynchronous instance lifecycle of a cloud provider into a
// synchronous, bounded-time outcome.
//
// [Waiter.AwaitState] issues a start or stop request at most once and then polls the
// instance until it reaches the desired state ([Reached]), enters a state from which the
// desired state can no longer be reached ([Failed]), or the poll budget runs out
// ([TimedOut]). Credential errors are returned immediately; transient provider errors are
// retried a bounded number of times with exponential backoff.
//
// [Waiter.AwaitAddress] waits for a running instance to report its public address.
package waiter
