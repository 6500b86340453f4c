package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valoruf/valoruf/internal/export"
	"github.com/valoruf/valoruf/pkg/ufapi"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <start> <end>",
	Short: "Export a date range to CSV or XLSX",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("query"); err != nil {
			return err
		}

		client := ufapi.NewClient(cfg.API.Origin)
		records, err := fetchRecords(ctx, client, ufapi.Range(args[0], args[1]))
		if err != nil {
			return eris.Wrap(err, "fetch range")
		}

		if err := export.Write(exportOut, records); err != nil {
			return err
		}

		zap.L().Info("export complete", zap.String("path", exportOut), zap.Int("rows", len(records)))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s.\n", len(records), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (.csv or .xlsx)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
