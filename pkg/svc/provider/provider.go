package provider

import (
	"context"
	"fmt"
)

// LifecycleState is the provider-reported status of a compute instance.
type LifecycleState string

// Lifecycle states shared by every provider. Provider-specific values are mapped onto these.
const (
	StatePending      LifecycleState = "pending"
	StateRunning      LifecycleState = "running"
	StateStopping     LifecycleState = "stopping"
	StateStopped      LifecycleState = "stopped"
	StateShuttingDown LifecycleState = "shutting-down"
	StateTerminated   LifecycleState = "terminated"
	// StateUnknown is used for provider values outside the enumeration.
	StateUnknown LifecycleState = "unknown"
)

// ParseLifecycleState maps a raw state name onto a LifecycleState.
func ParseLifecycleState(raw string) LifecycleState {
	switch state := LifecycleState(raw); state {
	case StatePending, StateRunning, StateStopping, StateStopped, StateShuttingDown, StateTerminated:
		return state
	default:
		return StateUnknown
	}
}

// Instance contains information about a compute instance managed by a provider.
type Instance struct {
	// ID is the provider-assigned identifier. It is immutable and unique within an account/region.
	ID string

	// Name is the display name, taken from the "Name" tag. Empty when the tag is absent.
	Name string

	// State is the current lifecycle state.
	State LifecycleState

	// PublicAddress is the public IPv4 address. Only set while running and network-attached.
	PublicAddress string

	// Type is the provider's instance/server type (e.g. t3.micro, cx22).
	Type string

	// Zone is the availability zone or location the instance lives in.
	Zone string
}

// HasPublicAddress reports whether the instance currently has a public address.
func (i Instance) HasPublicAddress() bool {
	return i.PublicAddress != ""
}

// Provider defines the interface for instance providers.
type Provider interface {
	// ListInstances returns every instance visible to the configured credentials.
	ListInstances(ctx context.Context) ([]Instance, error)

	// DescribeInstances returns the instances with the given ids.
	// An empty id set yields an empty result without contacting the provider.
	DescribeInstances(ctx context.Context, ids []string) ([]Instance, error)

	// StartInstance requests that the instance be started. Acceptance does not mean
	// the instance is running yet.
	StartInstance(ctx context.Context, id string) error

	// StopInstance requests that the instance be stopped. Acceptance does not mean
	// the instance is stopped yet.
	StopInstance(ctx context.Context, id string) error
}

// DescribeInstance describes a single instance.
// Returns ErrNotFound when the provider reports no instance with that id.
func DescribeInstance(ctx context.Context, prov Provider, id string) (Instance, error) {
	instances, err := prov.DescribeInstances(ctx, []string{id})
	if err != nil {
		return Instance{}, fmt.Errorf("failed to describe instance %s: %w", id, err)
	}

	for _, instance := range instances {
		if instance.ID == id {
			return instance, nil
		}
	}

	return Instance{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
