package topology

import (
	"fmt"

	"github.com/containerd/errdefs"
)

const (
	// MinPort is the lowest primary port a storage node may use.
	MinPort = 4000
	// MaxPort is the highest primary port whose bus port stays below 24000.
	MaxPort = 13999
	// BusPortBase is where the cluster-bus port range starts.
	BusPortBase = 14000
)

// Node describes one storage node of the cluster
type Node struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Slots    string `mapstructure:"slots" yaml:"slots"`       // e.g. "0_5460", descriptive only
	Snapshot string `mapstructure:"snapshot" yaml:"snapshot"` // e.g. "redis_node_0_5460_14000.rdb"
	Port     int    `mapstructure:"port" yaml:"port"`
}

// BusPort returns the auxiliary cluster-bus port paired with the node's port.
func (n Node) BusPort() int {
	return BusPortBase + (n.Port - MinPort)
}

// Endpoint returns "name:port", the address dependents use to reach the node.
func (n Node) Endpoint() string {
	return fmt.Sprintf("%s:%d", n.Name, n.Port)
}

// Table is the ordered list of storage nodes.
type Table []Node

// Names returns the node names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, n := range t {
		names = append(names, n.Name)
	}
	return names
}

// Validate checks that names and ports are unique, that every node names its
// snapshot file and that every port is in [MinPort, MaxPort], so bus ports
// can never collide with each other.
func (t Table) Validate() error {
	names := make(map[string]int, len(t))
	ports := make(map[int]string, len(t))

	for i, n := range t {
		if n.Name == "" {
			return fmt.Errorf("%w: node at index %d has no name", errdefs.ErrInvalidArgument, i)
		}
		if j, ok := names[n.Name]; ok {
			return fmt.Errorf("%w: duplicate node name %q (index %d and %d)", errdefs.ErrInvalidArgument, n.Name, j, i)
		}
		names[n.Name] = i

		if n.Snapshot == "" {
			return fmt.Errorf("%w: node %q has no snapshot file", errdefs.ErrInvalidArgument, n.Name)
		}

		if n.Port < MinPort || n.Port > MaxPort {
			return fmt.Errorf("%w: node %q port %d outside [%d, %d]", errdefs.ErrInvalidArgument, n.Name, n.Port, MinPort, MaxPort)
		}
		if other, ok := ports[n.Port]; ok {
			return fmt.Errorf("%w: nodes %q and %q share port %d", errdefs.ErrInvalidArgument, other, n.Name, n.Port)
		}
		ports[n.Port] = n.Name
	}

	return nil
}

// SnapshotName formats the snapshot file name used by the deployed nodes,
// e.g. SnapshotName("0_5460", 14000) == "redis_node_0_5460_14000.rdb".
func SnapshotName(slots string, busPort int) string {
	return fmt.Sprintf("redis_node_%s_%d.rdb", slots, busPort)
}

// Default returns the nine-node table the cluster binaries are deployed with.
// Three slot ranges, each owned by three nodes.
func Default() Table {
	ranges := []string{
		"0_5460", "5460_10921", "10921_16383",
		"0_5460", "0_5460", "5460_10921",
		"5460_10921", "10921_16383", "10921_16383",
	}

	t := make(Table, 0, len(ranges))
	for i, slots := range ranges {
		n := Node{
			Name:  fmt.Sprintf("node%d", i),
			Slots: slots,
			Port:  MinPort + i,
		}
		n.Snapshot = SnapshotName(slots, n.BusPort())
		t = append(t, n)
	}
	return t
}
