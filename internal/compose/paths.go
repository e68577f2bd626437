package compose

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/sarth-shah20/shardcompose/internal/topology"
)

// LogFileName returns the log file name of a service, e.g. "node0.log".
func LogFileName(service string) string {
	return service + ".log"
}

// HostLogPath returns the host side of a service's log mount. Relative
// directories are written "./dir/name.log" so compose resolves them against
// the manifest's directory.
func HostLogPath(logDir, service string) string {
	return hostPath(logDir, LogFileName(service))
}

// ContainerLogPath returns where a service's log file lives inside the container.
func ContainerLogPath(workDir, service string) string {
	return path.Join(workDir, "logs", LogFileName(service))
}

// SnapshotBuildPath returns the snapshot path relative to the build context,
// e.g. "redis_server/rdb_files/redis_node_0_5460_14000.rdb".
func SnapshotBuildPath(snapshotDir, snapshot string) string {
	return path.Join(snapshotDir, snapshot)
}

// HostSnapshotPath returns the host side of a node's snapshot mount.
func HostSnapshotPath(snapshotDir, snapshot string) string {
	return hostPath(snapshotDir, snapshot)
}

// ContainerSnapshotPath returns where a node's snapshot is mounted inside the container.
func ContainerSnapshotPath(workDir, snapshotDir, snapshot string) string {
	return path.Join(workDir, snapshotDir, snapshot)
}

// PortBinding publishes port on the same host port: "4000:4000".
func PortBinding(port int) string {
	return fmt.Sprintf("%d:%d", port, port)
}

// VolumeBinding joins a host and container path: "host:container".
func VolumeBinding(host, container string) string {
	return host + ":" + container
}

// SecretRef returns a reference resolved by the orchestration engine at
// deploy time, e.g. "${ENCRYPTION_KEY}".
func SecretRef(name string) string {
	return "${" + name + "}"
}

// NodeEndpoints lists the nodes as comma separated "name:port" pairs, last
// node first.
func NodeEndpoints(t topology.Table) string {
	endpoints := make([]string, 0, len(t))
	for i := len(t) - 1; i >= 0; i-- {
		endpoints = append(endpoints, t[i].Endpoint())
	}
	return strings.Join(endpoints, ",")
}

func hostPath(dir, file string) string {
	if filepath.IsAbs(dir) {
		return path.Join(filepath.ToSlash(dir), file)
	}
	return "./" + path.Join(filepath.ToSlash(dir), file)
}
