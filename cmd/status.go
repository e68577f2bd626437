package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/containerd/log"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/shardcompose/internal/docker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the containers of the generated services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := synthesize()
		if err != nil {
			return err
		}

		mgr, err := docker.NewManager()
		if err != nil {
			return err
		}

		containers, err := mgr.ListContainers(cmd.Context(), cfg.Network)
		if err != nil {
			return err
		}
		log.G(cmd.Context()).WithField("containers", len(containers)).Debug("listed containers")

		// Use tabwriter to print pretty columns
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tSTATE\tSTATUS\tPORTS")
		for _, s := range docker.Summarize(m.Services.Names(), containers) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Service, s.State, s.Status, s.Ports)
		}
		return w.Flush()
	},
}

func init() {
	statusCmd.Flags().String("network", "", "name of the shared network (default redinternanodos)")
	rootCmd.AddCommand(statusCmd)
}
