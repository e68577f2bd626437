package config

import (
	"github.com/sarth-shah20/shardcompose/internal/compose"
	"github.com/sarth-shah20/shardcompose/internal/topology"
)

// Config represents the root of shardcompose.yaml
type Config struct {
	Output     string             `mapstructure:"output"`  // e.g. "docker-compose.yml"
	LogDir     string             `mapstructure:"log_dir"` // e.g. "logs"
	Network    string             `mapstructure:"network"` // e.g. "redinternanodos"
	Driver     string             `mapstructure:"driver"`  // network driver, e.g. "bridge"
	Nodes      topology.Table     `mapstructure:"nodes"`
	Node       NodeService        `mapstructure:"node"`
	Dependents []DependentService `mapstructure:"dependents"`
}

// NodeService holds what every storage node service shares
type NodeService struct {
	BuildContext string   `mapstructure:"build_context"`
	Dockerfile   string   `mapstructure:"dockerfile"`   // e.g. "./redis_server/NodeDockerfile"
	SnapshotDir  string   `mapstructure:"snapshot_dir"` // e.g. "redis_server/rdb_files"
	WorkingDir   string   `mapstructure:"working_dir"`
	NofileLimit  int      `mapstructure:"nofile_limit"`
	Secrets      []string `mapstructure:"secrets"` // e.g. ["ENCRYPTION_KEY"]
}

// DependentService describes a microservice started after all storage nodes
type DependentService struct {
	Name         string   `mapstructure:"name"`
	BuildContext string   `mapstructure:"build_context"`
	Dockerfile   string   `mapstructure:"dockerfile"`
	Image        string   `mapstructure:"image"`
	WorkingDir   string   `mapstructure:"working_dir"`
	Port         int      `mapstructure:"port"`
	Command      string   `mapstructure:"command"` // binary inside the image
	Restart      string   `mapstructure:"restart"`
	Secrets      []string `mapstructure:"secrets"`
}

// Options converts the config into synthesis options.
func (c *Config) Options() compose.Options {
	opts := compose.Options{
		Network:       c.Network,
		NetworkDriver: c.Driver,
		LogDir:        c.LogDir,
		Node: compose.NodeTemplate{
			BuildContext: c.Node.BuildContext,
			Dockerfile:   c.Node.Dockerfile,
			SnapshotDir:  c.Node.SnapshotDir,
			WorkingDir:   c.Node.WorkingDir,
			NofileLimit:  c.Node.NofileLimit,
			Secrets:      c.Node.Secrets,
		},
	}

	for _, d := range c.Dependents {
		opts.Dependents = append(opts.Dependents, compose.DependentTemplate{
			Name:         d.Name,
			BuildContext: d.BuildContext,
			Dockerfile:   d.Dockerfile,
			Image:        d.Image,
			WorkingDir:   d.WorkingDir,
			Port:         d.Port,
			Command:      d.Command,
			Restart:      d.Restart,
			Secrets:      d.Secrets,
		})
	}

	return opts
}
