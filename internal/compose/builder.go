package compose

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// Builder assembles a Manifest. Networks and services keep the order in
// which they were added.
type Builder struct {
	networks Networks
	services Services
	names    map[string]struct{}
}

// NewBuilder returns an empty manifest builder.
func NewBuilder() *Builder {
	return &Builder{names: make(map[string]struct{})}
}

// AddNetwork appends a network definition.
func (b *Builder) AddNetwork(name string, n Network) *Builder {
	b.networks = append(b.networks, NamedNetwork{Name: name, Network: n})
	return b
}

// AddService appends a service. Adding the same name twice is an error
// because the later definition would silently shadow the first.
func (b *Builder) AddService(name string, s Service) error {
	if _, ok := b.names[name]; ok {
		return fmt.Errorf("%w: service %q defined twice", errdefs.ErrInvalidArgument, name)
	}
	b.names[name] = struct{}{}
	b.services = append(b.services, NamedService{Name: name, Service: s})
	return nil
}

// Build returns the assembled manifest. The builder can keep being used;
// the returned manifest does not share storage with it.
func (b *Builder) Build() *Manifest {
	return &Manifest{
		Networks: append(Networks{}, b.networks...),
		Services: append(Services{}, b.services...),
	}
}
