package hetzner

import "github.com/hetznercloud/hcloud-go/v2/hcloud"

// LabelName overrides the display name of a server, mirroring the EC2 "Name" tag.
const LabelName = "Name"

// serverName prefers the Name label and falls back to the server name.
func serverName(server *hcloud.Server) string {
	if name := server.Labels[LabelName]; name != "" {
		return name
	}

	return server.Name
}
