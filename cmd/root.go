package cmd

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/shardcompose/internal/compose"
	"github.com/sarth-shah20/shardcompose/internal/config"
	"github.com/sarth-shah20/shardcompose/internal/topology"
)

// Global variable to hold the loaded configuration
var cfg *config.Config

var (
	configFile   string
	topologyFile string
	logLevel     string
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:           "shardcompose",
	Short:         "Generate the docker-compose manifest of a sharded key-value cluster",
	SilenceUsage:  true,
	SilenceErrors: true,
	// PersistentPreRunE runs before ANY command (generate, plan, etc.)
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}

		loaded, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}

		if topologyFile != "" {
			nodes, err := topology.Load(topologyFile)
			if err != nil {
				return err
			}
			loaded.Nodes = nodes
		}

		cfg = loaded

		ctx := log.WithLogger(cmd.Context(), log.G(cmd.Context()).WithField("cmd", cmd.Name()))
		cmd.SetContext(ctx)

		log.G(ctx).WithFields(log.Fields{
			"nodes":   len(cfg.Nodes),
			"network": cfg.Network,
		}).Debug("loaded config")
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		entry := log.G(ctx).WithError(err)
		if errdefs.IsInvalidArgument(err) {
			entry.Error("invalid configuration")
		} else {
			entry.Error("command failed")
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./shardcompose.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&topologyFile, "topology", "t", "", "topology file replacing the configured nodes")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(log.TextFormat), "log format (text, json)")
}

func setupLogging() error {
	if err := log.SetLevel(logLevel); err != nil {
		return fmt.Errorf("%w: log level %q: %v", errdefs.ErrInvalidArgument, logLevel, err)
	}
	if err := log.SetFormat(log.OutputFormat(logFormat)); err != nil {
		return fmt.Errorf("%w: log format %q: %v", errdefs.ErrInvalidArgument, logFormat, err)
	}
	return nil
}

// synthesize builds the manifest for the loaded configuration.
func synthesize() (*compose.Manifest, error) {
	return compose.Synthesize(cfg.Nodes, cfg.Options())
}
