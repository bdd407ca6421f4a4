package cli

import (
	"fmt"

	"github.com/mgpai22/subx/internal/config"
	"github.com/spf13/cobra"
)

var printDefaultConfigCmd = &cobra.Command{
	Use:   "print-default-config",
	Short: "Print the effective config as TOML and exit",
	Long: `Print the config subx would run with as TOML: the defaults, with any
values from --config or ./config.toml applied on top.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.ToTOML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var printConfigSchemaCmd = &cobra.Command{
	Use:   "print-config-schema",
	Short: "Print the JSON schema of the config file and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(printDefaultConfigCmd)
	rootCmd.AddCommand(printConfigSchemaCmd)
}
