package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valoruf/valoruf/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "valoruf",
	Short: "Chilean UF value lookup",
	Long:  "Queries daily UF (Unidad de Fomento) values from the series API, renders them in Chilean locale, and runs the backing API server with its CMF-fed cache.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
