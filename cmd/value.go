package main

import (
	"github.com/spf13/cobra"

	"github.com/valoruf/valoruf/pkg/ufapi"
)

var valueCmd = &cobra.Command{
	Use:   "value [date]",
	Short: "Look up the UF value for a date (today when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runQuery(cmd, ufapi.Single(args[0]))
		}
		return runQuery(cmd, ufapi.Today())
	},
}

func init() {
	addQueryFlags(valueCmd)
	rootCmd.AddCommand(valueCmd)
}
