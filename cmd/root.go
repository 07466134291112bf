package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "allset",
	Short: "AI-assisted marketing site builder with switchable templates",
	Long: `Allset generates landing page content with AI, serves it with
interchangeable page templates, and keeps the selected template in sync
across the admin panel, the local cache, and every open page.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".allset.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
