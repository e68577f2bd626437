package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/shardcompose/internal/emit"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the compose manifest and create the service log files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := synthesize()
		if err != nil {
			return err
		}

		return emit.NewEmitter(afero.NewOsFs()).Emit(cmd.Context(), m, cfg.Output, cfg.LogDir)
	},
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "manifest path (default docker-compose.yml)")
	generateCmd.Flags().String("log-dir", "", "host directory for service log files (default logs)")
	generateCmd.Flags().String("network", "", "name of the shared network (default redinternanodos)")
	rootCmd.AddCommand(generateCmd)
}
