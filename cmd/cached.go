package main

import (
	"github.com/spf13/cobra"

	"github.com/valoruf/valoruf/pkg/ufapi"
)

var cachedCmd = &cobra.Command{
	Use:   "cached",
	Short: "List every value in the backend cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, ufapi.Cached())
	},
}

func init() {
	addQueryFlags(cachedCmd)
	rootCmd.AddCommand(cachedCmd)
}
