package compose

import (
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/docker/go-connections/nat"
)

// Validate checks that port specs parse, that no host port is published
// twice, that container names are unique and that every joined network is defined.
func (m *Manifest) Validate() error {
	published := make(map[string]string)
	containers := make(map[string]string)
	networks := make(map[string]struct{}, len(m.Networks))

	for _, nw := range m.Networks {
		networks[nw.Name] = struct{}{}
	}

	for _, named := range m.Services {
		svc := named.Service

		for _, nw := range svc.Networks {
			if _, ok := networks[nw]; !ok {
				return fmt.Errorf("%w: service %q joins undefined network %q", errdefs.ErrInvalidArgument, named.Name, nw)
			}
		}

		if svc.ContainerName != "" {
			if other, ok := containers[svc.ContainerName]; ok {
				return fmt.Errorf("%w: services %q and %q share container name %q", errdefs.ErrInvalidArgument, other, named.Name, svc.ContainerName)
			}
			containers[svc.ContainerName] = named.Name
		}

		for _, spec := range svc.Ports {
			mappings, err := nat.ParsePortSpec(spec)
			if err != nil {
				return fmt.Errorf("%w: service %q port %q: %v", errdefs.ErrInvalidArgument, named.Name, spec, err)
			}
			for _, pm := range mappings {
				if pm.Binding.HostPort == "" {
					continue
				}
				key := pm.Binding.HostIP + ":" + pm.Binding.HostPort + "/" + pm.Port.Proto()
				if other, ok := published[key]; ok {
					return fmt.Errorf("%w: host port %s published by %q and %q", errdefs.ErrInvalidArgument, pm.Binding.HostPort, other, named.Name)
				}
				published[key] = named.Name
			}
		}
	}

	return nil
}
