package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncCmd = &cobra.Command{
	Use:   "sync <start> <end>",
	Short: "Backfill the cache for a date range",
	Long:  "Fetches every day of the range from the CMF API and writes the results to the store in one batch. Days the upstream cannot answer are skipped.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		svc := initRates(st)

		n, err := svc.Backfill(ctx, args[0], args[1])
		if err != nil {
			return eris.Wrap(err, "sync")
		}

		zap.L().Info("backfill complete", zap.Int("days", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Backfilled %d days.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
