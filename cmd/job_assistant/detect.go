package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/fetch"
)

var detectCmd = &cobra.Command{
	Use:   "detect URL [URL...]",
	Short: "Show which job platform each URL belongs to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, u := range args {
			p := fetch.DetectPlatform(u)
			fmt.Fprintf(w, "%s\t%s\t%s\n", u, p, p.DisplayName())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
