package main

import (
	"github.com/spf13/cobra"

	"github.com/valoruf/valoruf/pkg/ufapi"
)

var rangeCmd = &cobra.Command{
	Use:   "range <start> <end>",
	Short: "Look up UF values for a date range",
	Long:  "Fetches every day of the range, inclusive. The dates travel to the backend exactly as given; ordering and format checks are the backend's.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, ufapi.Range(args[0], args[1]))
	},
}

func init() {
	addQueryFlags(rangeCmd)
	rootCmd.AddCommand(rangeCmd)
}
