package hetzner

import (
	"strconv"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// statusMapping maps Hetzner server statuses onto the shared lifecycle states.
// Statuses missing here (migrating, rebuilding, unknown) map to StateUnknown.
//
//nolint:gochecknoglobals // Package-level constant for status classification
var statusMapping = map[hcloud.ServerStatus]provider.LifecycleState{
	hcloud.ServerStatusInitializing: provider.StatePending,
	hcloud.ServerStatusStarting:     provider.StatePending,
	hcloud.ServerStatusRunning:      provider.StateRunning,
	hcloud.ServerStatusStopping:     provider.StateStopping,
	hcloud.ServerStatusOff:          provider.StateStopped,
	hcloud.ServerStatusDeleting:     provider.StateShuttingDown,
}

// LifecycleState returns the shared lifecycle state for a Hetzner status.
func LifecycleState(status hcloud.ServerStatus) provider.LifecycleState {
	if state, ok := statusMapping[status]; ok {
		return state
	}

	return provider.StateUnknown
}

func toInstance(server *hcloud.Server) provider.Instance {
	instance := provider.Instance{
		ID:    strconv.FormatInt(server.ID, 10),
		Name:  serverName(server),
		State: LifecycleState(server.Status),
	}

	if ip := server.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		instance.PublicAddress = ip.String()
	}

	if server.ServerType != nil {
		instance.Type = server.ServerType.Name
	}

	if server.Datacenter != nil && server.Datacenter.Location != nil {
		instance.Zone = server.Datacenter.Location.Name
	}

	return instance
}
