package topology

import (
	"fmt"
	"io"

	"github.com/containerd/errdefs"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

// document is the on-disk shape of a topology file.
type document struct {
	Nodes Table `mapstructure:"nodes" yaml:"nodes"`
}

// Load reads a topology file. The format follows the file extension
// (yaml, toml or json). Order of the nodes list is preserved. The nodes key
// is required; an explicit empty list is a valid empty topology.
func Load(filename string) (Table, error) {
	v := viper.New()
	v.SetConfigFile(filename)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading topology file %s: %w", filename, err)
	}
	if !v.IsSet("nodes") {
		return nil, fmt.Errorf("%w: topology file %s has no nodes key", errdefs.ErrInvalidArgument, filename)
	}

	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("unable to decode topology %s: %w", filename, err)
	}

	if doc.Nodes == nil {
		doc.Nodes = Table{}
	}
	return doc.Nodes, nil
}

// Write emits t as a YAML topology document that Load can read back.
func Write(w io.Writer, t Table) error {
	if t == nil {
		t = Table{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Nodes: t}); err != nil {
		return fmt.Errorf("encode topology: %w", err)
	}
	return enc.Close()
}
