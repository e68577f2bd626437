package compose

import (
	"fmt"
	"strconv"

	"github.com/sarth-shah20/shardcompose/internal/topology"
)

// Synthesize turns a topology into a manifest: one service per storage node,
// in table order, followed by the dependent services in template order.
func Synthesize(t topology.Table, opts Options) (*Manifest, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}

	b := NewBuilder()
	b.AddNetwork(opts.Network, Network{Driver: opts.NetworkDriver})

	for _, node := range t {
		if err := b.AddService(node.Name, NodeService(node, opts)); err != nil {
			return nil, err
		}
	}

	for _, tmpl := range opts.Dependents {
		if err := b.AddService(tmpl.Name, DependentService(tmpl, t, opts)); err != nil {
			return nil, err
		}
	}

	m := b.Build()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return m, nil
}

// NodeService builds the service running one storage node.
func NodeService(node topology.Node, opts Options) Service {
	tmpl := opts.Node
	containerSnapshot := ContainerSnapshotPath(tmpl.WorkingDir, tmpl.SnapshotDir, node.Snapshot)

	env := Env{{Name: LogFileEnv, Value: ContainerLogPath(tmpl.WorkingDir, node.Name)}}
	env = appendSecrets(env, tmpl.Secrets)
	env = append(env, EnvVar{Name: SnapshotEnv, Value: containerSnapshot})

	return Service{
		Networks: []string{opts.Network},
		Build: &Build{
			Context:    tmpl.BuildContext,
			Dockerfile: tmpl.Dockerfile,
			Args: Env{
				{Name: SnapshotEnv, Value: SnapshotBuildPath(tmpl.SnapshotDir, node.Snapshot)},
			},
		},
		ContainerName: node.Name,
		WorkingDir:    tmpl.WorkingDir,
		Environment:   env,
		Ports: []string{
			PortBinding(node.BusPort()),
			PortBinding(node.Port),
		},
		Volumes: []string{
			VolumeBinding(HostSnapshotPath(tmpl.SnapshotDir, node.Snapshot), containerSnapshot),
			VolumeBinding(HostLogPath(opts.LogDir, node.Name), ContainerLogPath(tmpl.WorkingDir, node.Name)),
		},
		Ulimits: &Ulimits{
			Nofile: Limit{Soft: tmpl.NofileLimit, Hard: tmpl.NofileLimit},
		},
		Command: []string{strconv.Itoa(node.Port)},
	}
}

// DependentService builds a service that starts after every storage node
// and reaches them through EndpointsEnv.
func DependentService(tmpl DependentTemplate, t topology.Table, opts Options) Service {
	env := Env{{Name: EndpointsEnv, Value: NodeEndpoints(t)}}
	env = appendSecrets(env, tmpl.Secrets)
	env = append(env, EnvVar{Name: LogFileEnv, Value: ContainerLogPath(tmpl.WorkingDir, tmpl.Name)})

	svc := Service{
		Networks: []string{opts.Network},
		Build: &Build{
			Context:    tmpl.BuildContext,
			Dockerfile: tmpl.Dockerfile,
		},
		Image:         tmpl.Image,
		Restart:       tmpl.Restart,
		ContainerName: tmpl.Name,
		WorkingDir:    tmpl.WorkingDir,
		Environment:   env,
		Ports:         []string{PortBinding(tmpl.Port)},
		Volumes: []string{
			VolumeBinding(HostLogPath(opts.LogDir, tmpl.Name), ContainerLogPath(tmpl.WorkingDir, tmpl.Name)),
		},
		DependsOn: t.Names(),
	}
	if tmpl.Command != "" {
		svc.Command = []string{tmpl.Command}
	}
	return svc
}

func appendSecrets(env Env, secrets []string) Env {
	for _, name := range secrets {
		env = append(env, EnvVar{Name: name, Value: SecretRef(name)})
	}
	return env
}
