package cmd

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/shardcompose/internal/cloud"
	"github.com/sarth-shah20/shardcompose/internal/emit"
	"github.com/sarth-shah20/shardcompose/internal/topology"
)

var (
	importGroup    string
	importBasePort int
	importRegion   string
	importOut      string
)

var importCmd = &cobra.Command{
	Use:   "import-elasticache",
	Short: "Write a topology file from an ElastiCache replication group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if importGroup == "" {
			return fmt.Errorf("%w: --replication-group is required", errdefs.ErrInvalidArgument)
		}

		awsCfg, err := cloud.LoadConfig(ctx, importRegion)
		if err != nil {
			return err
		}

		table, err := cloud.ImportReplicationGroup(ctx, elasticache.NewFromConfig(awsCfg), importGroup, importBasePort)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := topology.Write(&buf, table); err != nil {
			return err
		}

		if importOut == "-" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := emit.NewEmitter(afero.NewOsFs()).WriteFile(importOut, buf.Bytes()); err != nil {
			return err
		}

		log.G(ctx).WithFields(log.Fields{
			"nodes": len(table),
			"path":  importOut,
		}).Info("topology written")
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importGroup, "replication-group", "", "ElastiCache replication group id")
	importCmd.Flags().IntVar(&importBasePort, "base-port", topology.MinPort, "port of the first node")
	importCmd.Flags().StringVar(&importRegion, "region", "", "AWS region (default: from the AWS config)")
	importCmd.Flags().StringVar(&importOut, "out", "topology.yaml", "topology file to write, - for stdout")
	rootCmd.AddCommand(importCmd)
}
