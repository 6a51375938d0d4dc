package cmd

import (
	"github.com/spf13/cobra"

	"github.com/philipobrien-sdm/StratOS/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stratos configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick the reasoning provider and quality tier, and writes a .stratos.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
