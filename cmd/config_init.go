package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to ./config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat("config.yaml"); err == nil {
			return eris.New("config.yaml already exists")
		}

		// Never copy a live key into the file.
		out := *cfg
		out.CMF.Key = "YOUR_API_KEY_HERE"

		data, err := yaml.Marshal(&out)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}

		header := "# valoruf configuration.\n" +
			"# Every value can be overridden with a VALORUF_ environment variable,\n" +
			"# e.g. VALORUF_SERVER_PORT=8080. The CMF key also reads CMF_API_KEY.\n"
		if err := os.WriteFile("config.yaml", append([]byte(header), data...), 0o644); err != nil {
			return eris.Wrap(err, "write config.yaml")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config.yaml")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
