package cmd

import (
	"github.com/spf13/cobra"

	"github.com/allsetlabs/allset/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize allset configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure allset for your site and generates a .allset.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
