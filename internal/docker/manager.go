package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// ContainerLister is the part of the Docker client the manager needs
type ContainerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
}

// Manager handles all interactions with the Docker Daemon
type Manager struct {
	cli ContainerLister
}

// NewManager creates a new Docker client connected to the local daemon
func NewManager() (*Manager, error) {
	// FromEnv looks for standard env vars like DOCKER_HOST,
	// or defaults to the unix socket /var/run/docker.sock
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Manager{cli: cli}, nil
}

// NewManagerWithClient wraps an existing client.
func NewManagerWithClient(cli ContainerLister) *Manager {
	return &Manager{cli: cli}
}

// ListContainers returns every container, running or not, attached to networkName.
func (m *Manager) ListContainers(ctx context.Context, networkName string) ([]types.Container, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("network", networkName)

	containers, err := m.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers on %s: %w", networkName, err)
	}
	return containers, nil
}

// ServiceStatus is what the daemon reports for one manifest service.
type ServiceStatus struct {
	Service string
	State   string // "missing" when no container exists
	Status  string
	Image   string
	Ports   string
}

// StateMissing marks services without a container.
const StateMissing = "missing"

// Summarize matches containers to services by container name, in service order.
func Summarize(services []string, containers []types.Container) []ServiceStatus {
	byName := make(map[string]types.Container, len(containers))
	for _, c := range containers {
		for _, name := range c.Names {
			// Names come back as "/node0"
			byName[strings.TrimPrefix(name, "/")] = c
		}
	}

	out := make([]ServiceStatus, 0, len(services))
	for _, svc := range services {
		c, ok := byName[svc]
		if !ok {
			out = append(out, ServiceStatus{Service: svc, State: StateMissing})
			continue
		}
		out = append(out, ServiceStatus{
			Service: svc,
			State:   c.State,
			Status:  c.Status,
			Image:   c.Image,
			Ports:   FormatPorts(c.Ports),
		})
	}
	return out
}

// FormatPorts renders published ports as "4000->4000/tcp", sorted.
func FormatPorts(ports []types.Port) string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range ports {
		if p.PublicPort == 0 {
			continue
		}
		s := fmt.Sprintf("%d->%d/%s", p.PublicPort, p.PrivatePort, p.Type)
		// IPv4 and IPv6 bindings show up as separate entries
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
