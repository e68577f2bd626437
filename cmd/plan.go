package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/shardcompose/internal/compose"
)

var planYAML bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the services that generate would write",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := synthesize()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if planYAML {
			data, err := compose.Marshal(m)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}

		// Use tabwriter to print pretty columns
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tPORTS\tDEPENDS ON")
		for _, svc := range m.Services {
			deps := "-"
			if len(svc.Service.DependsOn) > 0 {
				deps = strings.Join(svc.Service.DependsOn, ",")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", svc.Name, strings.Join(svc.Service.Ports, " "), deps)
		}
		return w.Flush()
	},
}

func init() {
	planCmd.Flags().BoolVar(&planYAML, "yaml", false, "print the manifest instead of a summary")
	planCmd.Flags().String("log-dir", "", "host directory for service log files (default logs)")
	planCmd.Flags().String("network", "", "name of the shared network (default redinternanodos)")
	rootCmd.AddCommand(planCmd)
}
