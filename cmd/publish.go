package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/shardcompose/internal/cloud"
)

var (
	publishBucket string
	publishKey    string
	publishRegion string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the generated manifest to S3",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if publishBucket == "" {
			return fmt.Errorf("%w: --bucket is required", errdefs.ErrInvalidArgument)
		}

		f, err := os.Open(cfg.Output)
		if err != nil {
			return fmt.Errorf("open manifest %s (run 'shardcompose generate' first): %w", cfg.Output, err)
		}
		defer f.Close()

		key := publishKey
		if key == "" {
			key = filepath.Base(cfg.Output)
		}

		awsCfg, err := cloud.LoadConfig(ctx, publishRegion)
		if err != nil {
			return err
		}

		location, err := cloud.NewPublisher(awsCfg, publishBucket).Publish(ctx, key, f)
		if err != nil {
			return err
		}

		log.G(ctx).WithField("location", location).Info("manifest published")
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishBucket, "bucket", "", "destination S3 bucket")
	publishCmd.Flags().StringVar(&publishKey, "key", "", "object key (default: manifest file name)")
	publishCmd.Flags().StringVar(&publishRegion, "region", "", "AWS region (default: from the AWS config)")
	publishCmd.Flags().StringP("output", "o", "", "manifest path (default docker-compose.yml)")
	rootCmd.AddCommand(publishCmd)
}
