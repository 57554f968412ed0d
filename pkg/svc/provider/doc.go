// Package provider defines the contract between vmctl and the cloud providers that own
// the compute instances it manages.
//
// Providers handle instance-level operations:
//   - Describing instances (all, or a set of ids)
//   - Requesting start and stop transitions
//
// Transitions are asynchronous on every supported provider. Waiting for an end state is
// the job of the waiter package, not of a provider.
//
// Currently supported providers:
//   - AWS: EC2 instances (aws subpackage)
//   - Hetzner: Hetzner Cloud servers (hetzner subpackage)
package provider
