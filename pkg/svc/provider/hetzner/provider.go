package hetzner

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/devantler-tech/vmctl/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// TokenEnvVar is the environment variable holding the Hetzner Cloud API token.
const TokenEnvVar = "HCLOUD_TOKEN"

// ServerAPI is the subset of hcloud.ServerClient used by the provider.
type ServerAPI interface {
	GetByID(ctx context.Context, id int64) (*hcloud.Server, *hcloud.Response, error)
	All(ctx context.Context) ([]*hcloud.Server, error)
	Poweron(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)
	Shutdown(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)
}

// Provider implements provider.Provider for Hetzner Cloud servers.
type Provider struct {
	servers ServerAPI
	logger  logrus.FieldLogger
}

// Compile-time interface compliance verification.
var _ provider.Provider = (*Provider)(nil)

// NewProvider creates a new Hetzner Cloud provider with the given server client.
func NewProvider(servers ServerAPI, logger logrus.FieldLogger) *Provider {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &Provider{
		servers: servers,
		logger:  logger,
	}
}

// NewProviderFromToken creates a new Hetzner Cloud provider using an API token.
func NewProviderFromToken(token string, logger logrus.FieldLogger) (*Provider, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing [%s]", provider.ErrAuth, TokenEnvVar)
	}

	client := hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("vmctl", ""))

	return NewProvider(&client.Server, logger), nil
}

// IsAvailable reports whether the provider has a server client.
func (p *Provider) IsAvailable() bool {
	return p.servers != nil
}

// ListInstances returns every server in the project.
func (p *Provider) ListInstances(ctx context.Context) ([]provider.Instance, error) {
	if !p.IsAvailable() {
		return nil, provider.ErrProviderUnavailable
	}

	servers, err := p.servers.All(ctx)
	if err != nil {
		return nil, classifyError("ListServers", err)
	}

	return lo.Map(servers, func(server *hcloud.Server, _ int) provider.Instance {
		return toInstance(server)
	}), nil
}

// DescribeInstances returns the servers with the given ids. Ids that are not
// numeric or do not exist are left out of the result.
func (p *Provider) DescribeInstances(ctx context.Context, ids []string) ([]provider.Instance, error) {
	if len(ids) == 0 {
		return []provider.Instance{}, nil
	}

	if !p.IsAvailable() {
		return nil, provider.ErrProviderUnavailable
	}

	instances := make([]provider.Instance, 0, len(ids))

	for _, id := range lo.Uniq(ids) {
		server, err := p.get(ctx, id)
		if err != nil {
			return nil, err
		}

		if server != nil {
			instances = append(instances, toInstance(server))
		}
	}

	return instances, nil
}

// StartInstance powers on the server. The returned action is not awaited.
func (p *Provider) StartInstance(ctx context.Context, id string) error {
	server, err := p.mustGet(ctx, id)
	if err != nil {
		return err
	}

	action, _, err := p.servers.Poweron(ctx, server)
	if err != nil {
		return classifyError("PoweronServer", err)
	}

	p.logAction(id, action)

	return nil
}

// StopInstance requests a graceful ACPI shutdown of the server.
func (p *Provider) StopInstance(ctx context.Context, id string) error {
	server, err := p.mustGet(ctx, id)
	if err != nil {
		return err
	}

	action, _, err := p.servers.Shutdown(ctx, server)
	if err != nil {
		return classifyError("ShutdownServer", err)
	}

	p.logAction(id, action)

	return nil
}

// get fetches a server by id. A nil server without error means it does not exist.
func (p *Provider) get(ctx context.Context, id string) (*hcloud.Server, error) {
	serverID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || serverID <= 0 {
		p.logger.WithField("instance", id).Debug("not a hetzner server id")

		return nil, nil //nolint:nilnil // absent server
	}

	server, _, err := p.servers.GetByID(ctx, serverID)
	if err != nil {
		return nil, classifyError("GetServer", err)
	}

	return server, nil
}

func (p *Provider) mustGet(ctx context.Context, id string) (*hcloud.Server, error) {
	if !p.IsAvailable() {
		return nil, provider.ErrProviderUnavailable
	}

	server, err := p.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if server == nil {
		return nil, fmt.Errorf("%w: %s", provider.ErrNotFound, id)
	}

	return server, nil
}

func (p *Provider) logAction(id string, action *hcloud.Action) {
	if action == nil {
		return
	}

	p.logger.WithFields(logrus.Fields{
		"instance": id,
		"action":   action.ID,
		"command":  action.Command,
	}).Debug("hetzner action accepted")
}
