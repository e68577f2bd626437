package compose

import (
	"go.yaml.in/yaml/v3"
)

// Manifest is the root of the generated docker-compose document.
type Manifest struct {
	Networks Networks `yaml:"networks"`
	Services Services `yaml:"services"`
}

// Network is a compose network definition.
type Network struct {
	Driver string `yaml:"driver"`
}

// Service is a single compose service. Field order is the emitted key order.
type Service struct {
	Networks      []string `yaml:"networks,omitempty"`
	Build         *Build   `yaml:"build,omitempty"`
	Image         string   `yaml:"image,omitempty"`
	Restart       string   `yaml:"restart,omitempty"`
	ContainerName string   `yaml:"container_name,omitempty"`
	WorkingDir    string   `yaml:"working_dir,omitempty"`
	Environment   Env      `yaml:"environment,omitempty"`
	Ports         []string `yaml:"ports,omitempty"`   // "host:container"
	Volumes       []string `yaml:"volumes,omitempty"` // "host:container"
	Ulimits       *Ulimits `yaml:"ulimits,omitempty"`
	DependsOn     []string `yaml:"depends_on,omitempty"`
	Command       []string `yaml:"command,omitempty"`
}

// Build is the image build section of a service.
type Build struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile"`
	Args       Env    `yaml:"args,omitempty"`
}

// Ulimits holds the resource limits of a service.
type Ulimits struct {
	Nofile Limit `yaml:"nofile"`
}

// Limit is a soft/hard limit pair.
type Limit struct {
	Soft int `yaml:"soft"`
	Hard int `yaml:"hard"`
}

// EnvVar is one environment variable.
type EnvVar struct {
	Name  string
	Value string
}

// Env is an ordered set of environment variables, emitted as a mapping.
type Env []EnvVar

// Get returns the value of the named variable.
func (e Env) Get(name string) (string, bool) {
	for _, v := range e {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// IsZero lets omitempty drop empty environments.
func (e Env) IsZero() bool { return len(e) == 0 }

// MarshalYAML emits the variables as a mapping in insertion order.
func (e Env) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range e {
		if err := appendPair(node, v.Name, v.Value); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// NamedNetwork pairs a network with its name.
type NamedNetwork struct {
	Name    string
	Network Network
}

// Networks is an insertion-ordered mapping of network name to definition.
type Networks []NamedNetwork

// MarshalYAML emits the networks as a mapping keyed by name, in declaration order.
func (n Networks) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, nw := range n {
		if err := appendPair(node, nw.Name, nw.Network); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// NamedService pairs a service with its name.
type NamedService struct {
	Name    string
	Service Service
}

// Services is an insertion-ordered mapping of service name to definition.
type Services []NamedService

// Names returns the service names in insertion order.
func (s Services) Names() []string {
	names := make([]string, 0, len(s))
	for _, svc := range s {
		names = append(names, svc.Name)
	}
	return names
}

// Get returns the named service.
func (s Services) Get(name string) (Service, bool) {
	for _, svc := range s {
		if svc.Name == name {
			return svc.Service, true
		}
	}
	return Service{}, false
}

// MarshalYAML emits the services as a mapping keyed by name, in declaration order.
func (s Services) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, svc := range s {
		if err := appendPair(node, svc.Name, svc.Service); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func appendPair(mapping *yaml.Node, key string, value interface{}) error {
	var k, v yaml.Node
	if err := k.Encode(key); err != nil {
		return err
	}
	if err := v.Encode(value); err != nil {
		return err
	}
	mapping.Content = append(mapping.Content, &k, &v)
	return nil
}
