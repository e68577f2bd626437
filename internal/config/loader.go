package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sarth-shah20/shardcompose/internal/compose"
	"github.com/sarth-shah20/shardcompose/internal/topology"
)

// DefaultName is the config file looked up in the working directory when
// no file is given.
const DefaultName = "shardcompose"

// EnvPrefix prefixes environment overrides, e.g. SHARDCOMPOSE_OUTPUT.
const EnvPrefix = "SHARDCOMPOSE"

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"output":  "output",
	"log-dir": "log_dir",
	"network": "network",
}

// Load reads the configuration from the given filename (e.g., "shardcompose.yaml").
// An empty filename looks for shardcompose.{yaml,toml,json} in the working
// directory and falls back to the built-in defaults when there is none.
// Flags that were set on the command line win over the file and the environment.
func Load(filename string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if filename != "" {
		v.SetConfigFile(filename)
	} else {
		v.SetConfigName(DefaultName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if filename != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if !v.IsSet("nodes") {
		cfg.Nodes = topology.Default()
	}
	if cfg.Nodes == nil {
		cfg.Nodes = topology.Table{}
	}

	if !v.IsSet("dependents") {
		for _, d := range compose.DefaultOptions().Dependents {
			cfg.Dependents = append(cfg.Dependents, fromTemplate(d))
		}
	}
	for i := range cfg.Dependents {
		fillDependent(&cfg.Dependents[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings synthesis cannot do without.
func (c *Config) Validate() error {
	switch {
	case c.Output == "":
		return fmt.Errorf("%w: output path is empty", errdefs.ErrInvalidArgument)
	case c.Network == "":
		return fmt.Errorf("%w: network name is empty", errdefs.ErrInvalidArgument)
	case c.Node.NofileLimit <= 0:
		return fmt.Errorf("%w: node.nofile_limit must be positive, got %d", errdefs.ErrInvalidArgument, c.Node.NofileLimit)
	}

	for i, d := range c.Dependents {
		if d.Name == "" {
			return fmt.Errorf("%w: dependent at index %d has no name", errdefs.ErrInvalidArgument, i)
		}
		if d.Port <= 0 || d.Port > 65535 {
			return fmt.Errorf("%w: dependent %q has invalid port %d", errdefs.ErrInvalidArgument, d.Name, d.Port)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	opts := compose.DefaultOptions()

	v.SetDefault("output", "docker-compose.yml")
	v.SetDefault("log_dir", opts.LogDir)
	v.SetDefault("network", opts.Network)
	v.SetDefault("driver", opts.NetworkDriver)
	v.SetDefault("node.build_context", opts.Node.BuildContext)
	v.SetDefault("node.dockerfile", opts.Node.Dockerfile)
	v.SetDefault("node.snapshot_dir", opts.Node.SnapshotDir)
	v.SetDefault("node.working_dir", opts.Node.WorkingDir)
	v.SetDefault("node.nofile_limit", opts.Node.NofileLimit)
	v.SetDefault("node.secrets", opts.Node.Secrets)
}

func fromTemplate(d compose.DependentTemplate) DependentService {
	return DependentService{
		Name:         d.Name,
		BuildContext: d.BuildContext,
		Dockerfile:   d.Dockerfile,
		Image:        d.Image,
		WorkingDir:   d.WorkingDir,
		Port:         d.Port,
		Command:      d.Command,
		Restart:      d.Restart,
		Secrets:      d.Secrets,
	}
}

// fillDependent completes a dependent declared with only a name and a port,
// following the layout the default microservices use.
func fillDependent(d *DependentService) {
	if d.BuildContext == "" {
		d.BuildContext = "."
	}
	if d.Dockerfile == "" {
		d.Dockerfile = path.Join(d.Name, "Dockerfile")
	}
	if d.Image == "" {
		d.Image = d.Name
	}
	if d.WorkingDir == "" {
		d.WorkingDir = "/app"
	}
	if d.Command == "" {
		d.Command = path.Join(d.WorkingDir, d.Name+"_bin")
	}
	if d.Restart == "" {
		d.Restart = "on-failure"
	}
}
