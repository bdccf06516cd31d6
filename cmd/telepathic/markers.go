package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"telepathic-go/packages/telepathic/marker"
)

func newMarkersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "markers <file>",
		Short: "List the markers of a template and the paths they bind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range marker.Discover(string(data)) {
				path := m.PathWithSelf(cfg.SelfToken)
				status := ""
				if !path.Valid() {
					status = "invalid"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", m, path, status)
			}
			return w.Flush()
		},
	}
}
