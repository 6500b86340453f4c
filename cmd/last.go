package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/valoruf/valoruf/pkg/ufapi"
)

var lastCmd = &cobra.Command{
	Use:   "last [n]",
	Short: "Look up UF values for the last n days (default 7)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 7
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return eris.Wrapf(err, "parse day count %q", args[0])
			}
			n = parsed
		}
		return runQuery(cmd, ufapi.LastDays(n))
	},
}

func init() {
	addQueryFlags(lastCmd)
	rootCmd.AddCommand(lastCmd)
}
