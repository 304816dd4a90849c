// File: cmd/list.go
package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pagepilot/internal/harness"
	"github.com/xkilldash9x/pagepilot/internal/scenarios"
)

func newListCmd() *cobra.Command {
	var dataFile, filter string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the registered scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if dataFile == "" {
				dataFile = cfg.Run().DataFile
			}

			all, err := scenarios.Registry(dataFile)
			if err != nil {
				return fmt.Errorf("failed to load scenarios: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTAGS")
			for _, s := range harness.Select(all, filter) {
				fmt.Fprintf(w, "%s\t%s\n", s.Name, strings.Join(s.Tags, ","))
			}
			return w.Flush()
		},
	}

	listCmd.Flags().StringVar(&dataFile, "data", "", "Dataset file for data-driven scenarios (defaults to run.data_file)")
	listCmd.Flags().StringVar(&filter, "run", "", "Comma-separated name fragments or tags selecting scenarios")
	return listCmd
}
